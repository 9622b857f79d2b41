package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Security SecurityConfig `mapstructure:"security"`
	Log      LogConfig      `mapstructure:"log"`
	Audit    AuditConfig    `mapstructure:"audit"`
}

type ServerConfig struct {
	Port  int  `mapstructure:"port"`
	Debug bool `mapstructure:"debug"`
	// AllowedOrigins lists the front-end origins permitted by CORS.
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Mode       string        `mapstructure:"mode"` // sqlite | mysql | postgres
	SQLitePath string        `mapstructure:"sqlite_path"`
	DSN        string        `mapstructure:"dsn"` // mysql / postgres connection string
	MaxOpen    int           `mapstructure:"max_open"`
	MaxIdle    int           `mapstructure:"max_idle"`
	MaxLife    time.Duration `mapstructure:"max_life"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
	LookupTTL       time.Duration `mapstructure:"lookup_ttl"`
}

type SecurityConfig struct {
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	BcryptCost     int     `mapstructure:"bcrypt_cost"`
}

type LogConfig struct {
	File       string `mapstructure:"file"` // empty = stdout only
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type AuditConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
	Retention     time.Duration `mapstructure:"retention"` // 0 keeps entries forever
	PurgeInterval time.Duration `mapstructure:"purge_interval"`
}

// DefaultOrigins are the front-end deployments allowed when none are configured.
var DefaultOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"https://autoerp-fe.vercel.app",
}

// Load reads config from the given YAML file path. A missing file is not an
// error: defaults and AUTOERP_* environment variables are used instead.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("AUTOERP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.debug", false)
	v.SetDefault("server.allowed_origins", DefaultOrigins)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.mode", "sqlite")
	v.SetDefault("database.sqlite_path", "./data/autoerp.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open", 25)
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("database.max_life", "1h")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.local_gc_interval", "30s")
	v.SetDefault("cache.lookup_ttl", "10m")
	v.SetDefault("security.rate_limit_rps", 50)
	v.SetDefault("security.rate_limit_burst", 100)
	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.batch_size", 100)
	v.SetDefault("audit.flush_interval", "2s")
	v.SetDefault("audit.retention", "2160h")
	v.SetDefault("audit.purge_interval", "1h")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
