package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/autoerp/server/apperr"
	mw "github.com/autoerp/server/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError renders err as {"detail": ...}. Unclassified errors are logged
// and answered with a generic 500.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrInvalid):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		mw.WithTrace(log, c).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"detail": "internal server error"})
		return
	}
	detail := apperr.Message(err)
	if detail == "" {
		detail = err.Error()
	}
	c.JSON(status, gin.H{"detail": detail})
}

// bindJSON decodes the request body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, log *zap.Logger, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, log, apperr.Invalid("%s", err.Error()))
		return false
	}
	return true
}

// bindQuery decodes query parameters into dst, answering 400 on failure.
func bindQuery(c *gin.Context, log *zap.Logger, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		writeError(c, log, apperr.Invalid("%s", err.Error()))
		return false
	}
	return true
}

// pathID parses a positive integer path parameter, answering 400 on failure.
func pathID(c *gin.Context, log *zap.Logger, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, log, apperr.Invalid("invalid %s", name))
		return 0, false
	}
	return id, true
}
