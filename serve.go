package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/autoerp/server/api/rest"
	"github.com/autoerp/server/audit"
	"github.com/autoerp/server/cache"
	"github.com/autoerp/server/config"
	dbadapter "github.com/autoerp/server/db"
	mw "github.com/autoerp/server/middleware"
	"github.com/autoerp/server/model"
	"github.com/autoerp/server/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

// openDatabase opens, migrates and seeds the configured database.
func openDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		dbadapter.Close(db)
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	if err := model.Seed(db); err != nil {
		dbadapter.Close(db)
		return nil, fmt.Errorf("db seed: %w", err)
	}
	logger.Info("DB initialized", zap.String("mode", cfg.Database.Mode))
	return db, nil
}

// newRouter assembles the middleware chain and mounts the API. auditor may be nil.
func newRouter(ctx context.Context, cfg *config.Config, deps rest.Deps, auditor mw.AuditRecorder) *gin.Engine {
	r := gin.New()
	r.Use(
		mw.TraceID(),
		mw.Logger(deps.Log),
		mw.Recovery(deps.Log),
		mw.CORS(cfg.Server.AllowedOrigins),
		mw.RateLimit(ctx, rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst),
	)
	if auditor != nil {
		r.Use(mw.Audit(auditor))
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
	})
	rest.Register(r, deps)
	return r
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer dbadapter.Close(db)

	c, err := cache.NewCache(cfg.Cache)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer c.Close()
	if cfg.Cache.RedisAddr != "" {
		logger.Info("Cache initialized", zap.String("backend", "redis"), zap.String("addr", cfg.Cache.RedisAddr))
	} else {
		logger.Info("Cache initialized", zap.String("backend", "local"))
	}

	sched := scheduler.New(logger)
	defer sched.Stop()

	var auditor mw.AuditRecorder
	if cfg.Audit.Enabled {
		auditSvc := audit.New(db, logger, audit.Options{
			BatchSize:     cfg.Audit.BatchSize,
			FlushInterval: cfg.Audit.FlushInterval,
		})
		defer auditSvc.Stop()
		auditor = auditSvc
		if cfg.Audit.Retention > 0 && cfg.Audit.PurgeInterval > 0 {
			sched.AddTicker("audit-purge", cfg.Audit.PurgeInterval, func() {
				purgeCtx, cancel := context.WithTimeout(ctx, time.Minute)
				defer cancel()
				n, err := auditSvc.Purge(purgeCtx, time.Now().UTC().Add(-cfg.Audit.Retention))
				if err != nil {
					logger.Error("audit purge failed", zap.Error(err))
					return
				}
				if n > 0 {
					logger.Info("audit entries purged", zap.Int64("count", n))
				}
			})
		}
	}

	r := newRouter(ctx, cfg, rest.Deps{
		DB:         db,
		Cache:      c,
		Log:        logger,
		LookupTTL:  cfg.Cache.LookupTTL,
		BcryptCost: cfg.Security.BcryptCost,
	}, auditor)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
