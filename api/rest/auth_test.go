package rest_test

import (
	"net/http"
	"testing"

	"github.com/autoerp/server/api/rest"
	"github.com/autoerp/server/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func seedUser(t *testing.T, env *testEnv, username, password string, active bool, perms ...string) model.User {
	t.Helper()
	u := model.User{Username: username, IsActive: active}
	require.NoError(t, rest.CreateUser(env.db, &u, password, perms, bcrypt.MinCost))
	return u
}

func TestLoginReturnsPermissions(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, "admin", "admin123", true, "write", "admin", "read")

	w := postJSON(env.r, "/auth/login", map[string]string{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[map[string]interface{}](t, w)
	assert.Equal(t, "login successful", resp["message"])
	assert.ElementsMatch(t, []interface{}{"admin", "read", "write"}, resp["permissions"])
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, "bob", "correct", true)

	w := postJSON(env.r, "/auth/login", map[string]string{"username": "bob", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "detail")
}

func TestLoginUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	w := postJSON(env.r, "/auth/login", map[string]string{"username": "ghost", "password": "whatever"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginInactiveUser(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, "carol", "secret1", false)

	w := postJSON(env.r, "/auth/login", map[string]string{"username": "carol", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginMissingFields(t *testing.T) {
	env := newTestEnv(t)
	w := postJSON(env.r, "/auth/login", map[string]string{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := getJSON(env.r, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
