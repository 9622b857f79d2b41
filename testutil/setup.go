package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/autoerp/server/cache"
	"github.com/autoerp/server/config"
	dbadapter "github.com/autoerp/server/db"
	"github.com/autoerp/server/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SetupTestDB opens an isolated in-memory SQLite database with foreign keys
// enforced, runs AutoMigrate and seeds the default lookup rows.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := dbadapter.Open(config.DatabaseConfig{
		Mode:       dbadapter.ModeSQLite,
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name),
	})
	require.NoError(t, err, "SetupTestDB: Open")
	t.Cleanup(func() { _ = dbadapter.Close(db) })
	require.NoError(t, model.AutoMigrate(db), "SetupTestDB: AutoMigrate")
	require.NoError(t, model.Seed(db), "SetupTestDB: Seed")
	return db
}

// SetupTestCache creates a LocalCache (no Redis required).
func SetupTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewCache(config.CacheConfig{})
	require.NoError(t, err, "SetupTestCache: NewCache")
	t.Cleanup(func() { _ = c.Close() })
	return c
}
