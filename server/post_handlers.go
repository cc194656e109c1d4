package server

import (
	"net/http"
	"time"

	"github.com/Luismorlan/postmux/model"
	"github.com/Luismorlan/postmux/server/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// postRow is a post annotated with the author's username and its like count.
type postRow struct {
	Id         string
	CreatedAt  time.Time
	UserID     string
	Username   string
	Content    string
	LikesCount int64
}

// postQuery annotates every post with its like count in a single query
// instead of one count per row.
func (s *APIServer) postQuery() *gorm.DB {
	return s.db.Model(&model.Post{}).
		Select("posts.id, posts.created_at, posts.user_id, users.username AS username, posts.content, count(likes.id) AS likes_count").
		Joins("JOIN users ON users.id = posts.user_id").
		Joins("LEFT JOIN likes ON likes.post_id = posts.id").
		Group("posts.id, users.username")
}

// postJSON renders a post for the given viewer. The author's username is
// visible to everyone, the raw owner id only to admins.
func postJSON(row *postRow, admin bool) gin.H {
	out := gin.H{
		"id":            row.Id,
		"username":      row.Username,
		"post_text":     row.Content,
		"post_creation": row.CreatedAt,
		"likes":         row.LikesCount,
	}
	if admin {
		out["user"] = row.UserID
	}
	return out
}

func (s *APIServer) ListPosts(c *gin.Context) {
	rows := []postRow{}
	if err := s.postQuery().Order("posts.created_at ASC").Scan(&rows).Error; err != nil {
		internalError(c, err)
		return
	}

	user := middlewares.CurrentUser(c)
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, postJSON(&rows[i], user.IsAdmin))
	}
	c.JSON(http.StatusOK, out)
}

type createPostRequest struct {
	PostText string `json:"post_text" binding:"required"`
}

func (s *APIServer) CreatePost(c *gin.Context) {
	user := middlewares.CurrentUser(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	post := model.Post{
		Id:      uuid.New().String(),
		UserID:  user.Id,
		Content: req.PostText,
	}
	if err := s.db.Create(&post).Error; err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, postJSON(&postRow{
		Id:        post.Id,
		CreatedAt: post.CreatedAt,
		UserID:    post.UserID,
		Username:  user.Username,
		Content:   post.Content,
	}, user.IsAdmin))
}

func (s *APIServer) GetPost(c *gin.Context) {
	rows := []postRow{}
	if err := s.postQuery().Where("posts.id = ?", c.Param("id")).Scan(&rows).Error; err != nil {
		internalError(c, err)
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "post not found"})
		return
	}

	user := middlewares.CurrentUser(c)
	c.JSON(http.StatusOK, postJSON(&rows[0], user.IsAdmin))
}

type updatePostRequest struct {
	PostText *string `json:"post_text"`
	// admin-only, silently ignored for regular owners the same way a
	// read-only serializer field would be
	PostCreation *time.Time `json:"post_creation"`
}

func (s *APIServer) UpdatePost(c *gin.Context) {
	user := middlewares.CurrentUser(c)

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var post model.Post
	if err := s.db.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "post not found"})
		return
	}
	if post.UserID != user.Id && !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"detail": "you do not have permission to perform this action"})
		return
	}
	if c.Request.Method == http.MethodPut && req.PostText == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "post_text is required"})
		return
	}

	updates := map[string]interface{}{}
	if req.PostText != nil {
		updates["content"] = *req.PostText
	}
	if req.PostCreation != nil && user.IsAdmin {
		updates["created_at"] = *req.PostCreation
	}
	if len(updates) > 0 {
		if err := s.db.Model(&post).Updates(updates).Error; err != nil {
			internalError(c, err)
			return
		}
	}

	rows := []postRow{}
	if err := s.postQuery().Where("posts.id = ?", post.Id).Scan(&rows).Error; err != nil || len(rows) == 0 {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, postJSON(&rows[0], user.IsAdmin))
}

func (s *APIServer) DeletePost(c *gin.Context) {
	user := middlewares.CurrentUser(c)

	var post model.Post
	if err := s.db.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "post not found"})
		return
	}
	if post.UserID != user.Id && !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"detail": "you do not have permission to perform this action"})
		return
	}

	if err := s.db.Delete(&post).Error; err != nil {
		internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
