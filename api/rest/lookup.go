package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/autoerp/server/apperr"
	"github.com/autoerp/server/cache"
	mw "github.com/autoerp/server/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const cacheTimeout = 2 * time.Second

// LookupHandler serves the small reference tables (colors, statuses, ...)
// through a read-through cache keyed by table name.
type LookupHandler struct {
	db    *gorm.DB
	cache cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewLookupHandler creates a new LookupHandler. A nil cache disables caching.
func NewLookupHandler(db *gorm.DB, c cache.Cache, ttl time.Duration, log *zap.Logger) *LookupHandler {
	return &LookupHandler{db: db, cache: c, ttl: ttl, log: log}
}

func lookupKey(table string) string { return "lookup:" + table }

// cachedList returns every row of T, consulting the cache first. Cache
// failures are logged and the database answers instead.
func cachedList[T any](c *gin.Context, h *LookupHandler, table string, query func(*gorm.DB) *gorm.DB) ([]T, error) {
	rows := []T{}
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cacheTimeout)
		hit, err := cache.GetJSON(ctx, h.cache, lookupKey(table), &rows)
		cancel()
		if err != nil {
			mw.WithTrace(h.log, c).Warn("lookup cache read failed", zap.String("table", table), zap.Error(err))
		} else if hit {
			return rows, nil
		}
	}

	q := h.db.WithContext(c.Request.Context()).Order("id")
	if query != nil {
		q = query(q)
	}
	rows = []T{}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cacheTimeout)
		err := cache.SetJSON(ctx, h.cache, lookupKey(table), rows, h.ttl)
		cancel()
		if err != nil {
			mw.WithTrace(h.log, c).Warn("lookup cache write failed", zap.String("table", table), zap.Error(err))
		}
	}
	return rows, nil
}

// invalidate drops the cached list of table.
func (h *LookupHandler) invalidate(c *gin.Context, table string) {
	if h.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), cacheTimeout)
	defer cancel()
	if err := h.cache.Del(ctx, lookupKey(table)); err != nil {
		mw.WithTrace(h.log, c).Warn("lookup cache invalidation failed", zap.String("table", table), zap.Error(err))
	}
}

// listLookup handles GET on a lookup table.
func listLookup[T any](h *LookupHandler, table string, query func(*gorm.DB) *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := cachedList[T](c, h, table, query)
		if err != nil {
			writeError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// createLookup handles POST on a lookup table. build turns the validated
// request into the row to insert.
func createLookup[Req any, T any](h *LookupHandler, table, what string, build func(*Req) *T) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Req
		if !bindJSON(c, h.log, &req) {
			return
		}
		row := build(&req)
		if err := h.db.WithContext(c.Request.Context()).Create(row).Error; err != nil {
			writeError(c, h.log, apperr.FromDB(err, what))
			return
		}
		h.invalidate(c, table)
		c.JSON(http.StatusCreated, row)
	}
}
