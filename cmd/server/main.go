package main

import (
	"os"
	"time"

	"github.com/Luismorlan/postmux/auth"
	"github.com/Luismorlan/postmux/server"
	"github.com/Luismorlan/postmux/server/middlewares"
	. "github.com/Luismorlan/postmux/utils"
	"github.com/Luismorlan/postmux/utils/dotenv"
	Flag "github.com/Luismorlan/postmux/utils/flag"
	. "github.com/Luismorlan/postmux/utils/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

func cleanup() {
	CloseProfiler()
	CloseTracer()
	Log.Info("api server shutdown")
}

// serverLocation resolves the time zone that decides analytics day
// boundaries. Defaults to UTC.
func serverLocation() *time.Location {
	tz := os.Getenv("SERVER_TZ")
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		Log.Fatal("invalid SERVER_TZ: ", err)
	}
	return loc
}

func main() {
	defer cleanup()

	Flag.Parse()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	StartTracer()
	StartProfiler()

	db, err := GetDBConnection()
	if err != nil {
		Log.Fatal("fail to connect to database: ", err)
	}
	DatabaseSetupAndMigration(db)

	redisClient := GetRedisClient()
	tokens := auth.NewTokenStore(redisClient)

	middlewares.Setup(db, tokens)

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()

	router.Use(cors.Default())
	router.Use(gintrace.Middleware(Flag.ServiceName))

	api := server.NewAPIServer(db, tokens, serverLocation())
	api.RegisterRoutes(router)

	Log.Info("api server starts up")
	router.Run(":8080")
}
