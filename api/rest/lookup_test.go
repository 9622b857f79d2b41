package rest_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/autoerp/server/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupReadThroughCache(t *testing.T) {
	env := newTestEnv(t)
	mustCreate(t, env.r, "/vehicles/colors", map[string]interface{}{"color": "Rojo"})

	first := decode[[]map[string]interface{}](t, getJSON(env.r, "/vehicles/colors"))
	require.Len(t, first, 1)
	ok, err := env.cache.Exists(context.Background(), "lookup:colors")
	require.NoError(t, err)
	assert.True(t, ok)

	// Rows written behind the API stay invisible until the key is dropped.
	require.NoError(t, env.db.Create(&model.Color{Color: "Azul"}).Error)
	stale := decode[[]map[string]interface{}](t, getJSON(env.r, "/vehicles/colors"))
	assert.Len(t, stale, 1)

	mustCreate(t, env.r, "/vehicles/colors", map[string]interface{}{"color": "Verde"})
	fresh := decode[[]map[string]interface{}](t, getJSON(env.r, "/vehicles/colors"))
	assert.Len(t, fresh, 3)
}

func TestLookupSeededAndValidation(t *testing.T) {
	env := newTestEnv(t)

	statuses := decode[[]map[string]interface{}](t, getJSON(env.r, "/orders/op-statuses"))
	require.Len(t, statuses, 1)
	assert.Equal(t, "Received", statuses[0]["status"])

	priorities := decode[[]map[string]interface{}](t, getJSON(env.r, "/orders/priorities"))
	require.Len(t, priorities, 1)

	assert.Equal(t, http.StatusBadRequest, postJSON(env.r, "/vehicles/motors", map[string]interface{}{}).Code)
	assert.Equal(t, http.StatusConflict, postJSON(env.r, "/orders/priorities", map[string]interface{}{"priority": "Normal"}).Code)

	empty := getJSON(env.r, "/vehicles/transmissions")
	require.Equal(t, http.StatusOK, empty.Code)
	assert.JSONEq(t, `[]`, empty.Body.String())
}

func TestLookupWithoutCache(t *testing.T) {
	env := newTestEnvNoCache(t)
	mustCreate(t, env.r, "/appointments/reasons", map[string]interface{}{"reason": "Oil change"})
	reasons := decode[[]map[string]interface{}](t, getJSON(env.r, "/appointments/reasons"))
	require.Len(t, reasons, 1)
	assert.Equal(t, "Oil change", reasons[0]["reason"])
}
