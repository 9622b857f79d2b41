package db

import (
	"fmt"

	"github.com/autoerp/server/config"
	dbmysql "github.com/autoerp/server/db/mysql"
	dbpostgres "github.com/autoerp/server/db/postgres"
	dbsqlite "github.com/autoerp/server/db/sqlite"
	"gorm.io/gorm"
)

const (
	ModeSQLite   = "sqlite"
	ModeMySQL    = "mysql"
	ModePostgres = "postgres"
)

// Open returns a *gorm.DB for the configured database mode.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Mode {
	case ModeSQLite:
		return dbsqlite.Open(cfg.SQLitePath)
	case ModeMySQL:
		return dbmysql.Open(cfg.DSN, cfg.MaxOpen, cfg.MaxIdle, cfg.MaxLife)
	case ModePostgres:
		return dbpostgres.Open(cfg.DSN, cfg.MaxOpen, cfg.MaxIdle, cfg.MaxLife)
	default:
		return nil, fmt.Errorf("db: unknown mode %q", cfg.Mode)
	}
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
