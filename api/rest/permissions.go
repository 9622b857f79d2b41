package rest

import (
	"errors"
	"net/http"

	"github.com/autoerp/server/apperr"
	"github.com/autoerp/server/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PermissionHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPermissionHandler(db *gorm.DB, log *zap.Logger) *PermissionHandler {
	return &PermissionHandler{db: db, log: log}
}

type permissionRequest struct {
	Name        string  `json:"name" binding:"required,max=80"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

// List handles GET /permissions.
func (h *PermissionHandler) List(c *gin.Context) {
	perms := []model.Permission{}
	if err := h.db.WithContext(c.Request.Context()).Order("name").Find(&perms).Error; err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, perms)
}

// Upsert handles POST /permissions: 201 when the name is new, 200 with the
// stored row when it already exists.
func (h *PermissionHandler) Upsert(c *gin.Context) {
	var req permissionRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	status := http.StatusOK
	var perm model.Permission
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("name = ?", req.Name).Take(&perm).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		perm = model.Permission{Name: req.Name, Description: req.Description}
		status = http.StatusCreated
		return tx.Create(&perm).Error
	})
	if err != nil {
		writeError(c, h.log, apperr.FromDB(err, "permission"))
		return
	}
	c.JSON(status, perm)
}
