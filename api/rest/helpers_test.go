package rest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/autoerp/server/api/rest"
	"github.com/autoerp/server/cache"
	"github.com/autoerp/server/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	r     *gin.Engine
	db    *gorm.DB
	cache cache.Cache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return buildTestEnv(t, testutil.SetupTestCache(t))
}

// newTestEnvNoCache builds the router with lookup caching disabled.
func newTestEnvNoCache(t *testing.T) *testEnv {
	t.Helper()
	return buildTestEnv(t, nil)
}

func buildTestEnv(t *testing.T, c cache.Cache) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	r := gin.New()
	rest.Register(r, rest.Deps{
		DB:         db,
		Cache:      c,
		Log:        zap.NewNop(),
		LookupTTL:  time.Minute,
		BcryptCost: bcrypt.MinCost,
	})
	return &testEnv{r: r, db: db, cache: c}
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, path, body)
}

func getJSON(r *gin.Engine, path string) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodGet, path, nil)
}

// decode unmarshals the recorder body into v and returns it.
func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

// mustCreate POSTs body to path, requires 201 and returns the decoded object.
func mustCreate(t *testing.T, r *gin.Engine, path string, body interface{}) map[string]interface{} {
	t.Helper()
	w := postJSON(r, path, body)
	require.Equal(t, http.StatusCreated, w.Code, "POST %s: %s", path, w.Body.String())
	return decode[map[string]interface{}](t, w)
}

// id reads a numeric JSON id field.
func id(obj map[string]interface{}, field string) int64 {
	f, _ := obj[field].(float64)
	return int64(f)
}
