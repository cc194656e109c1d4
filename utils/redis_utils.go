package utils

import (
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
)

// GetRedisClient builds a client against the Redis instance specified by env.
// The caller is responsible for pinging it before use.
func GetRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password: os.Getenv("REDIS_PASSWD"),
		DB:       0, // use default DB
	})
}
