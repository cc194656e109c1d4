package server

import (
	"net/http"

	"github.com/Luismorlan/postmux/analytics"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// LikeAnalytics returns likes-per-day counts for the inclusive range
// [date_from, date_to]. Days without likes are omitted.
func (s *APIServer) LikeAnalytics(c *gin.Context) {
	from, err := analytics.ParseDate(c.Query("date_from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	to, err := analytics.ParseDate(c.Query("date_to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	counts, err := s.analytics.LikesByDay(from, to)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// UserActivity returns the liveness timestamps of one user. A user that
// never logged in or made a request yields null timestamps, not an error.
func (s *APIServer) UserActivity(c *gin.Context) {
	activity, err := s.tracker.GetActivity(c.Param("userId"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "user not found"})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}
