// Package audit keeps the trail of state-changing requests. Entries are
// queued in memory and written to the database in batches.
package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/autoerp/server/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultQueueSize     = 1024
	defaultBatchSize     = 100
	defaultFlushInterval = 2 * time.Second
)

// Entry holds one audit event to be logged.
type Entry struct {
	TraceID  string
	Method   string
	Route    string
	Path     string
	Params   map[string]string
	Status   int
	IP       string
	Duration time.Duration
}

type Options struct {
	BatchSize     int
	FlushInterval time.Duration
}

// Service logs audit entries asynchronously in batches.
type Service struct {
	db        *gorm.DB
	ch        chan *model.AuditLog
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	logger    *zap.Logger
	batchSize int
	interval  time.Duration
}

// New creates a new audit Service and starts its background worker.
func New(db *gorm.DB, logger *zap.Logger, opts Options) *Service {
	svc := &Service{
		db:        db,
		ch:        make(chan *model.AuditLog, defaultQueueSize),
		stopCh:    make(chan struct{}),
		logger:    logger,
		batchSize: opts.BatchSize,
		interval:  opts.FlushInterval,
	}
	if svc.batchSize <= 0 {
		svc.batchSize = defaultBatchSize
	}
	if svc.interval <= 0 {
		svc.interval = defaultFlushInterval
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// Log enqueues an entry for async DB write. A full queue drops the entry.
func (svc *Service) Log(entry Entry) {
	var params datatypes.JSON
	if len(entry.Params) > 0 {
		b, err := json.Marshal(entry.Params)
		if err == nil {
			params = datatypes.JSON(b)
		}
	}
	record := &model.AuditLog{
		TraceID:    entry.TraceID,
		Method:     entry.Method,
		Route:      entry.Route,
		Path:       entry.Path,
		Params:     params,
		Status:     entry.Status,
		IP:         entry.IP,
		DurationMs: int(entry.Duration.Milliseconds()),
	}
	select {
	case svc.ch <- record:
	default:
		svc.logger.Warn("audit queue full, dropping entry",
			zap.String("route", entry.Route))
	}
}

// Stop flushes remaining entries and shuts down the worker.
// It blocks until the worker goroutine has finished.
func (svc *Service) Stop() {
	svc.stopOnce.Do(func() { close(svc.stopCh) })
	svc.wg.Wait()
}

// Purge deletes entries created before cutoff and returns how many went.
func (svc *Service) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	res := svc.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.AuditLog{})
	return res.RowsAffected, res.Error
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	ticker := time.NewTicker(svc.interval)
	defer ticker.Stop()

	batch := make([]*model.AuditLog, 0, svc.batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := svc.db.Create(&batch).Error; err != nil {
			svc.logger.Error("audit batch write failed", zap.Int("entries", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-svc.ch:
			batch = append(batch, entry)
			if len(batch) >= svc.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-svc.stopCh:
			for {
				select {
				case entry := <-svc.ch:
					batch = append(batch, entry)
				default:
					flush()
					return
				}
			}
		}
	}
}
