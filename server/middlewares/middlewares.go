package middlewares

import (
	"net/http"
	"strings"

	"github.com/Luismorlan/postmux/auth"
	"github.com/Luismorlan/postmux/model"
	"github.com/Luismorlan/postmux/tracker"
	Logger "github.com/Luismorlan/postmux/utils/log"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// context keys under which TokenAuth stores the resolved user and the raw
// token it presented
const (
	userContextKey  = "user"
	tokenContextKey = "token"
)

var (
	// package scoped collaborators, set once via Setup before any
	// middleware is used.
	db              *gorm.DB
	tokenStore      *auth.TokenStore
	activityTracker *tracker.Tracker
)

// Setup initializes all package scoped variables that are needed to perform
// middleware functionalities. This function must be called before any
// middleware is used.
func Setup(gormDB *gorm.DB, store *auth.TokenStore) {
	db = gormDB
	tokenStore = store
	activityTracker = tracker.New(gormDB)
}

// TokenAuth fetches the bearer token from the Authorization header, resolves
// it to a user through the token store and stores the user in the request
// context. It aborts with 401 on a missing, malformed or unknown token.
// Both "Token <value>" and "Bearer <value>" schemes are accepted.
func TokenAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "authentication credentials were not provided"})
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || (parts[0] != "Token" && parts[0] != "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid authorization header"})
			c.Abort()
			return
		}

		userId, err := tokenStore.Resolve(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid token"})
			c.Abort()
			return
		}

		var user model.User
		if err := db.First(&user, "id = ?", userId).Error; err != nil {
			// token outlived the account
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid token"})
			c.Abort()
			return
		}

		c.Set(userContextKey, &user)
		c.Set(tokenContextKey, parts[1])
		c.Next()
	}
}

// AdminOnly gates a route to staff users. Must run after TokenAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"detail": "you do not have permission to perform this action"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActivityHook stamps last_request once per authenticated request, after the
// handler ran. A failed stamp is logged and never blocks the response, the
// single timestamp write is the only business logic allowed here.
func ActivityHook() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		user := CurrentUser(c)
		if user == nil {
			return
		}
		if err := activityTracker.OnAuthenticatedRequest(user.Id); err != nil {
			Logger.Log.Error("fail to update last_request for user ", user.Id, ": ", err)
		}
	}
}

// CurrentUser returns the user resolved by TokenAuth, or nil on an
// unauthenticated request.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// CurrentToken returns the raw token the request authenticated with, or ""
// on an unauthenticated request.
func CurrentToken(c *gin.Context) string {
	v, ok := c.Get(tokenContextKey)
	if !ok {
		return ""
	}
	token, _ := v.(string)
	return token
}
