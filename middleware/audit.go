package middleware

import (
	"net/http"
	"time"

	"github.com/autoerp/server/audit"
	"github.com/gin-gonic/gin"
)

// AuditRecorder receives one entry per state-changing request.
type AuditRecorder interface {
	Log(audit.Entry)
}

// Audit records POST, PUT, PATCH and DELETE requests that matched a route.
func Audit(rec AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			return
		}
		var params map[string]string
		if len(c.Params) > 0 {
			params = make(map[string]string, len(c.Params))
			for _, p := range c.Params {
				params[p.Key] = p.Value
			}
		}
		rec.Log(audit.Entry{
			TraceID:  GetTraceID(c),
			Method:   c.Request.Method,
			Route:    route,
			Path:     c.Request.URL.Path,
			Params:   params,
			Status:   c.Writer.Status(),
			IP:       c.ClientIP(),
			Duration: time.Since(start),
		})
	}
}
