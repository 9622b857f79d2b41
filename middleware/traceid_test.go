package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTraceRouter() *gin.Engine {
	r := gin.New()
	r.Use(TraceID())
	r.GET("/trace", func(c *gin.Context) {
		c.String(http.StatusOK, GetTraceID(c))
	})
	return r
}

func traceOf(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/trace", nil)
	if header != "" {
		req.Header.Set(TraceIDHeader, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTraceID_Generated(t *testing.T) {
	w := traceOf(newTraceRouter(), "")
	require.Equal(t, http.StatusOK, w.Code)

	id := w.Body.String()
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Header().Get(TraceIDHeader))
}

func TestTraceID_Provided(t *testing.T) {
	w := traceOf(newTraceRouter(), "front-end-42")
	assert.Equal(t, "front-end-42", w.Body.String())
	assert.Equal(t, "front-end-42", w.Header().Get(TraceIDHeader))
}

func TestTraceID_RejectsOversizedOrUnprintable(t *testing.T) {
	r := newTraceRouter()
	for _, bad := range []string{strings.Repeat("a", maxTraceIDLen+1), "has space"} {
		w := traceOf(r, bad)
		assert.NotEqual(t, bad, w.Body.String())
		assert.Len(t, w.Body.String(), 36)
	}
}

func TestGetTraceID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "", GetTraceID(c))
}

func TestWithTrace(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(TraceIDKey, "abc")

	WithTrace(zap.New(core), c).Info("hello")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "abc", logs.All()[0].ContextMap()["trace_id"])
}
