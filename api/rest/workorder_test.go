package rest_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtraInfoUpsertOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	o := mustCreate(t, env.r, "/orders", map[string]interface{}{"c_order_id": "W-1"})
	oid := id(o, "order_id")
	item := mustCreate(t, env.r, "/orders/extra-items", map[string]interface{}{"title": "Keys"})
	iid := id(item, "item_id")

	w := postJSON(env.r, "/orders/extra-info", []map[string]interface{}{
		{"order_id": oid, "item_id": iid, "info": "first"},
		{"order_id": oid, "item_id": iid, "info": "second"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rows := decode[[]map[string]interface{}](t, w)
	require.Len(t, rows, 1)
	assert.Equal(t, "second", rows[0]["info"])

	listed := decode[[]map[string]interface{}](t, getJSON(env.r, fmt.Sprintf("/orders/extra-info/%d", oid)))
	require.Len(t, listed, 1)
	assert.Equal(t, "Keys", listed[0]["item"].(map[string]interface{})["title"])

	w = postJSON(env.r, "/orders/extra-info", []map[string]interface{}{{"order_id": 999, "item_id": iid}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, decode[map[string]interface{}](t, w)["detail"])

	w = postJSON(env.r, "/orders/extra-info", []map[string]interface{}{{"item_id": iid}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(env.r, "/orders/extra-info", map[string]interface{}{"order_id": oid})
	assert.Equal(t, http.StatusBadRequest, w.Code, "body must be a list")

	assert.Equal(t, http.StatusNotFound, getJSON(env.r, "/orders/extra-info/999").Code)
}

func TestInventoryOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	o := mustCreate(t, env.r, "/orders", map[string]interface{}{"c_order_id": "W-2"})
	oid := id(o, "order_id")

	exterior := mustCreate(t, env.r, "/orders/inventory-types", map[string]interface{}{"name": "Exterior"})
	interior := mustCreate(t, env.r, "/orders/inventory-types", map[string]interface{}{"name": "Interior"})
	assert.EqualValues(t, 0, exterior["position"])
	assert.EqualValues(t, 1, interior["position"])

	extID := id(exterior, "inv_type_id")
	mirrors := mustCreate(t, env.r, "/orders/inventory-items", map[string]interface{}{"type_id": extID, "name": "Mirrors"})
	antenna := mustCreate(t, env.r, "/orders/inventory-items", map[string]interface{}{"type_id": extID, "name": "Antenna"})
	radio := mustCreate(t, env.r, "/orders/inventory-items", map[string]interface{}{"type_id": id(interior, "inv_type_id"), "name": "Radio"})
	assert.EqualValues(t, 1, antenna["position"])
	assert.EqualValues(t, 0, radio["position"], "positions are per type")

	w := postJSON(env.r, "/orders/inventory-items", map[string]interface{}{"type_id": 999, "name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = postJSON(env.r, "/orders/inventory-data", []map[string]interface{}{
		{"order_id": oid, "item_id": id(mirrors, "inv_item_id"), "data": "both"},
		{"order_id": oid, "item_id": id(antenna, "inv_item_id"), "data": "missing"},
		{"order_id": oid, "item_id": id(radio, "inv_item_id"), "data": "works"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(env.r, http.MethodPut, "/orders/inventory-items/reorder", []map[string]interface{}{
		{"id": id(mirrors, "inv_item_id"), "position": 5},
		{"id": id(antenna, "inv_item_id"), "position": 2},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reordered := decode[[]map[string]interface{}](t, w)
	require.Len(t, reordered, 2)
	assert.Equal(t, "Antenna", reordered[0]["name"])

	data := decode[[]map[string]interface{}](t, getJSON(env.r, fmt.Sprintf("/orders/inventory-data/%d/%d", oid, extID)))
	require.Len(t, data, 2)
	assert.Equal(t, "missing", data[0]["data"])
	assert.Equal(t, "both", data[1]["data"])

	items := decode[[]map[string]interface{}](t, getJSON(env.r, fmt.Sprintf("/orders/inventory-items?type_id=%d", extID)))
	assert.Len(t, items, 2)

	w = doJSON(env.r, http.MethodPut, "/orders/inventory-types/reorder", []map[string]interface{}{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestBodyworkOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	o := mustCreate(t, env.r, "/orders", map[string]interface{}{"c_order_id": "W-3"})
	oid := id(o, "order_id")
	hood := mustCreate(t, env.r, "/orders/bodywork-items", map[string]interface{}{"title": "Hood"})
	door := mustCreate(t, env.r, "/orders/bodywork-items", map[string]interface{}{"title": "Door"})
	assert.EqualValues(t, 1, door["position"])

	w := postJSON(env.r, "/orders/bodywork", []map[string]interface{}{
		{"order_id": oid, "item_id": id(hood, "item_id"), "marks": []map[string]int{{"x": 10, "y": 20}}, "notes": "scratch"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = postJSON(env.r, "/orders/bodywork", []map[string]interface{}{
		{"order_id": oid, "item_id": id(door, "item_id"), "marks": "not a list"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	listed := decode[[]map[string]interface{}](t, getJSON(env.r, fmt.Sprintf("/orders/bodywork/%d", oid)))
	require.Len(t, listed, 1)
	assert.Equal(t, "scratch", listed[0]["notes"])
	marks, ok := listed[0]["marks"].([]interface{})
	require.True(t, ok, "marks: %v", listed[0]["marks"])
	assert.Len(t, marks, 1)

	w = doJSON(env.r, http.MethodPut, "/orders/bodywork-items/reorder", []map[string]interface{}{
		{"id": id(door, "item_id"), "position": 0},
		{"id": id(hood, "item_id"), "position": 1},
	})
	require.Equal(t, http.StatusOK, w.Code)
	items := decode[[]map[string]interface{}](t, getJSON(env.r, "/orders/bodywork-items"))
	require.Len(t, items, 2)
	assert.Equal(t, "Door", items[0]["title"])
}
