package rest

import (
	"errors"
	"net/http"

	"github.com/autoerp/server/apperr"
	"github.com/autoerp/server/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler checks credentials. No token or session is issued.
type AuthHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, log *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, log: log}
}

type loginRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=72"`
}

// Login handles POST /auth/login and returns the user's permission names.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	var user model.User
	err := h.db.WithContext(c.Request.Context()).
		Preload("Permissions").
		Where("username = ?", req.Username).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(c, h.log, apperr.Unauthorized("invalid username or password"))
		return
	}
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		writeError(c, h.log, apperr.Unauthorized("invalid username or password"))
		return
	}
	if !user.IsActive {
		writeError(c, h.log, apperr.Unauthorized("user is inactive"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "login successful",
		"user_id":     user.ID,
		"is_admin":    user.IsAdmin,
		"permissions": user.PermissionNames(),
	})
}
