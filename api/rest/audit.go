package rest

import (
	"net/http"
	"strings"

	"github.com/autoerp/server/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultAuditLimit = 100

// AuditHandler exposes the audit trail.
type AuditHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAuditHandler(db *gorm.DB, log *zap.Logger) *AuditHandler {
	return &AuditHandler{db: db, log: log}
}

type auditListQuery struct {
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Route  string `form:"route"`
	Method string `form:"method" binding:"omitempty,oneof=POST PUT PATCH DELETE post put patch delete"`
}

// List handles GET /audit, newest entries first.
func (h *AuditHandler) List(c *gin.Context) {
	var q auditListQuery
	if !bindQuery(c, h.log, &q) {
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultAuditLimit
	}
	db := h.db.WithContext(c.Request.Context()).Order("id DESC").Limit(q.Limit)
	if q.Route != "" {
		db = db.Where("route = ?", q.Route)
	}
	if q.Method != "" {
		db = db.Where("method = ?", strings.ToUpper(q.Method))
	}
	logs := []model.AuditLog{}
	if err := db.Find(&logs).Error; err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
