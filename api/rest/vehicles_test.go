package rest_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleCreateEmbedsLookups(t *testing.T) {
	env := newTestEnv(t)
	mk := mustCreate(t, env.r, "/vehicles/makes", map[string]interface{}{"make": "Nissan"})
	md := mustCreate(t, env.r, "/vehicles/models", map[string]interface{}{"model": "Tsuru", "make_id": id(mk, "make_id")})
	color := mustCreate(t, env.r, "/vehicles/colors", map[string]interface{}{"color": "Blanco"})

	v := mustCreate(t, env.r, "/vehicles", map[string]interface{}{
		"vin":      "3n1eb31s0xk000000",
		"model_id": id(md, "model_id"),
		"color_id": id(color, "color_id"),
		"liters":   1.6,
		"year":     2010,
	})
	assert.Equal(t, "3N1EB31S0XK000000", v["vin"])
	assert.Equal(t, "1.6", v["liters"])

	embedded, ok := v["model"].(map[string]interface{})
	require.True(t, ok, "model should be embedded: %v", v)
	assert.Equal(t, "Tsuru", embedded["model"])
	mkEmbedded, ok := embedded["make"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Nissan", mkEmbedded["make"])
	assert.Equal(t, "Blanco", v["color"].(map[string]interface{})["color"])
	assert.Nil(t, v["motor"])
}

func TestVehicleConstraints(t *testing.T) {
	env := newTestEnv(t)
	mustCreate(t, env.r, "/vehicles", map[string]interface{}{"vin": "1HGCM82633A004352"})

	w := postJSON(env.r, "/vehicles", map[string]interface{}{"vin": "1hgcm82633a004352"})
	assert.Equal(t, http.StatusConflict, w.Code, "VINs compare after upper-casing")

	w = postJSON(env.r, "/vehicles", map[string]interface{}{"vin": "JH4KA8260MC000000", "color_id": 999})
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

	w = postJSON(env.r, "/vehicles", map[string]interface{}{"vin": "JH4KA8260MC000000", "liters": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(env.r, "/vehicles", map[string]interface{}{"vin": "JH4"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVehicleUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	v := mustCreate(t, env.r, "/vehicles", map[string]interface{}{"vin": "1HGCM82633A004352", "mileage": 1000})
	vid := id(v, "vehicle_id")
	path := fmt.Sprintf("/vehicles/%d", vid)

	w := doJSON(env.r, http.MethodPatch, path, map[string]interface{}{"mileage": 2500, "plate": "ABC-123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[map[string]interface{}](t, w)
	assert.EqualValues(t, 2500, got["mileage"])
	assert.Equal(t, "ABC-123", got["plate"])
	assert.Equal(t, "1HGCM82633A004352", got["vin"])

	order := mustCreate(t, env.r, "/orders", map[string]interface{}{"c_order_id": "V-1", "vehicle_id": vid})

	require.Equal(t, http.StatusNoContent, doJSON(env.r, http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, getJSON(env.r, path).Code)

	o := decode[map[string]interface{}](t, getJSON(env.r, fmt.Sprintf("/orders/%d", id(order, "order_id"))))
	assert.Nil(t, o["vehicle_id"])
}

func TestVehicleModelsByMake(t *testing.T) {
	env := newTestEnv(t)
	nissan := mustCreate(t, env.r, "/vehicles/makes", map[string]interface{}{"make": "Nissan"})
	ford := mustCreate(t, env.r, "/vehicles/makes", map[string]interface{}{"make": "Ford"})
	mustCreate(t, env.r, "/vehicles/models", map[string]interface{}{"model": "Tsuru", "make_id": id(nissan, "make_id")})
	mustCreate(t, env.r, "/vehicles/models", map[string]interface{}{"model": "Focus", "make_id": id(ford, "make_id")})

	all := decode[[]map[string]interface{}](t, getJSON(env.r, "/vehicles/models"))
	assert.Len(t, all, 2)

	only := decode[[]map[string]interface{}](t, getJSON(env.r, fmt.Sprintf("/vehicles/models?make_id=%d", id(ford, "make_id"))))
	require.Len(t, only, 1)
	assert.Equal(t, "Focus", only[0]["model"])

	w := postJSON(env.r, "/vehicles/models", map[string]interface{}{"model": "Ghost", "make_id": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
