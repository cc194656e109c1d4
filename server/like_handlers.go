package server

import (
	"net/http"

	"github.com/Luismorlan/postmux/model"
	"github.com/Luismorlan/postmux/server/middlewares"
	"github.com/Luismorlan/postmux/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var errAlreadyLiked = errors.New("already liked")

type createLikeRequest struct {
	Post string `json:"post" binding:"required"`
}

// CreateLike inserts a like. The existence check and the insert share one
// transaction, with the composite unique index as backstop, so concurrent
// double-likes cannot slip through.
func (s *APIServer) CreateLike(c *gin.Context) {
	user := middlewares.CurrentUser(c)

	var req createLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	like := model.Like{
		Id:     uuid.New().String(),
		UserID: user.Id,
		PostID: req.Post,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.First(&post, "id = ?", req.Post).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&model.Like{}).Where("user_id = ? AND post_id = ?", user.Id, req.Post).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errAlreadyLiked
		}
		return tx.Create(&like).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "post not found"})
		return
	}
	// the composite unique index catches a concurrent double-like that
	// slipped past the in-transaction check
	if errors.Is(err, errAlreadyLiked) || utils.IsUniqueViolation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "You have already liked this post"})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":            like.Id,
		"post":          like.PostID,
		"like_creation": like.CreatedAt,
	})
}

// DeleteLike removes the caller's like from a post, keyed by post id.
func (s *APIServer) DeleteLike(c *gin.Context) {
	user := middlewares.CurrentUser(c)

	res := s.db.Where("user_id = ? AND post_id = ?", user.Id, c.Param("postId")).Delete(&model.Like{})
	if res.Error != nil {
		internalError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Like not found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Like removed successfully."})
}
