package model_test

import (
	"testing"

	"github.com/autoerp/server/model"
	"github.com/autoerp/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoMigrateCreatesTables(t *testing.T) {
	db := testutil.SetupTestDB(t)
	for _, table := range []string{
		"users", "permissions", "user_permissions", "customers", "contacts",
		"positions", "employees", "vehicles", "vehicle_models", "orders",
		"extra_items", "extra_info", "inventory_types", "inventory_items",
		"inventory_data", "bodywork_items", "bodywork_data", "appointments",
	} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	require.NoError(t, model.Seed(db))

	var count int64
	db.Model(&model.AdmStatus{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var prio model.Priority
	require.NoError(t, db.First(&prio, model.DefaultPriorityID).Error)
	assert.Equal(t, "Normal", prio.Priority)
}

func TestOrderDeleteCascadesToExtraInfo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	order := model.Order{
		COrderID:    "A-100",
		AdmStatusID: model.DefaultAdmStatusID,
		OpStatusID:  model.DefaultOpStatusID,
		PriorityID:  model.DefaultPriorityID,
	}
	require.NoError(t, db.Create(&order).Error)
	item := model.ExtraItem{Title: "Spare tire"}
	require.NoError(t, db.Create(&item).Error)
	info := "yes"
	require.NoError(t, db.Create(&model.ExtraInfo{OrderID: order.ID, ItemID: item.ID, Info: &info}).Error)

	require.NoError(t, db.Delete(&model.Order{}, order.ID).Error)

	var count int64
	db.Model(&model.ExtraInfo{}).Count(&count)
	assert.Zero(t, count)
}

func TestPermissionNames(t *testing.T) {
	u := model.User{Permissions: []model.Permission{{Name: "orders"}, {Name: "customers"}}}
	assert.Equal(t, []string{"orders", "customers"}, u.PermissionNames())
	assert.Empty(t, (&model.User{}).PermissionNames())
}
