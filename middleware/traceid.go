package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const TraceIDKey = "trace_id"
const TraceIDHeader = "X-Trace-ID"

const maxTraceIDLen = 64

// TraceID tags every request with a trace id, reusing the caller's X-Trace-ID
// when it is short and printable. The id is echoed in the response header.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if !validTraceID(traceID) {
			traceID = uuid.New().String()
		}
		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)
		c.Next()
	}
}

func validTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetTraceID retrieves the trace ID from the Gin context.
func GetTraceID(c *gin.Context) string {
	if v, exists := c.Get(TraceIDKey); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithTrace returns log annotated with the request's trace id.
func WithTrace(log *zap.Logger, c *gin.Context) *zap.Logger {
	return log.With(zap.String("trace_id", GetTraceID(c)))
}
