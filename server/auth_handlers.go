package server

import (
	"net/http"

	"github.com/Luismorlan/postmux/auth"
	"github.com/Luismorlan/postmux/model"
	"github.com/Luismorlan/postmux/server/middlewares"
	"github.com/Luismorlan/postmux/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var errDuplicateUsername = errors.New("username already taken")

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser creates a user together with its activity record in one
// transaction, so no code path can observe a user without a record.
func (s *APIServer) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		internalError(c, err)
		return
	}

	user := model.User{
		Id:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicateUsername
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&model.ActivityRecord{UserID: user.Id}).Error
	})
	// the unique index catches a concurrent duplicate that slipped past
	// the in-transaction check
	if errors.Is(err, errDuplicateUsername) || utils.IsUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"detail": "username already taken"})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       user.Id,
		"username": user.Username,
		"email":    user.Email,
		"is_admin": user.IsAdmin,
	})
}

type obtainTokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ObtainAuthToken verifies credentials, issues a token and stamps
// last_login. Failed logins never touch the activity record.
func (s *APIServer) ObtainAuthToken(c *gin.Context) {
	var req obtainTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var user model.User
	if err := s.db.First(&user, "username = ?", req.Username).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid username or password"})
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid username or password"})
		return
	}

	token, err := s.tokens.Issue(c.Request.Context(), user.Id)
	if err != nil {
		internalError(c, err)
		return
	}
	if err := s.tracker.OnLoginSuccess(user.Id); err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout revokes the token the request authenticated with. Other tokens of
// the same user stay valid until they expire.
func (s *APIServer) Logout(c *gin.Context) {
	if err := s.tokens.Revoke(c.Request.Context(), middlewares.CurrentToken(c)); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Logged out."})
}
