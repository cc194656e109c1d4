package server

import (
	"net/http"
	"time"

	"github.com/Luismorlan/postmux/analytics"
	"github.com/Luismorlan/postmux/auth"
	"github.com/Luismorlan/postmux/server/middlewares"
	"github.com/Luismorlan/postmux/tracker"
	Logger "github.com/Luismorlan/postmux/utils/log"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// APIServer bundles the handlers of the posting service with their
// collaborators. Construct it once in main and register it on a gin router.
type APIServer struct {
	db        *gorm.DB
	tokens    *auth.TokenStore
	tracker   *tracker.Tracker
	analytics *analytics.Analytics
}

// NewAPIServer creates the api server. loc is the server time zone used for
// the day boundaries of like analytics.
func NewAPIServer(db *gorm.DB, tokens *auth.TokenStore, loc *time.Location) *APIServer {
	return &APIServer{
		db:        db,
		tokens:    tokens,
		tracker:   tracker.New(db),
		analytics: analytics.New(db, loc),
	}
}

// RegisterRoutes wires the full HTTP surface. Everything behind TokenAuth
// also passes through ActivityHook, which stamps last_request per request.
func (s *APIServer) RegisterRoutes(router *gin.Engine) {
	router.POST("/register/", s.RegisterUser)
	router.POST("/auth/token/", s.ObtainAuthToken)

	authed := router.Group("/", middlewares.TokenAuth(), middlewares.ActivityHook())
	authed.POST("/logout/", s.Logout)
	authed.GET("/posts/", s.ListPosts)
	authed.POST("/posts/", s.CreatePost)
	authed.GET("/posts/:id/", s.GetPost)
	authed.PUT("/posts/:id/", s.UpdatePost)
	authed.PATCH("/posts/:id/", s.UpdatePost)
	authed.DELETE("/posts/:id/", s.DeletePost)
	// legacy alias of POST /posts/
	authed.POST("/create_post/", s.CreatePost)
	authed.POST("/like/", s.CreateLike)
	authed.DELETE("/unlike/:postId/", s.DeleteLike)

	admin := authed.Group("/", middlewares.AdminOnly())
	admin.GET("/analytics/", s.LikeAnalytics)
	admin.GET("/user_activity/:userId/", s.UserActivity)
}

// internalError logs the cause and answers with an opaque 500.
func internalError(c *gin.Context, err error) {
	Logger.Log.Error(c.Request.Method, " ", c.FullPath(), ": ", err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
}
