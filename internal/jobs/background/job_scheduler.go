package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"billmaker/internal/services"

	"github.com/bsm/redislock"
	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const (
	PDFCleanupJobName = "pdf-export-cleanup"
	pdfCleanupLockKey = "billmaker:lock:" + PDFCleanupJobName
	storedInvoicesDir = "bills/"
)

// Locker is satisfied by *redislock.Client.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (*redislock.Lock, error)
}

type SchedulerConfig struct {
	PDFRetention       time.Duration
	PDFCleanupInterval time.Duration
}

// JobScheduler runs the periodic maintenance jobs. When several replicas
// share one redis, the lock keeps each run to a single replica.
type JobScheduler struct {
	scheduler gocron.Scheduler
	store     services.DocumentStore
	locker    Locker
	cfg       SchedulerConfig
	logger    *zap.Logger
	now       func() time.Time
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates the scheduler and registers its jobs. locker may be
// nil for a single instance.
func NewJobScheduler(store services.DocumentStore, locker Locker, cfg SchedulerConfig, logger *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		store:     store,
		locker:    locker,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info("starting background job scheduler", zap.Int("jobs", len(js.jobs)))
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(js.cfg.PDFCleanupInterval),
		gocron.NewTask(js.runPDFCleanup),
		gocron.WithName(PDFCleanupJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", PDFCleanupJobName, err)
	}

	js.mu.Lock()
	js.jobs[PDFCleanupJobName] = job
	js.mu.Unlock()
	return nil
}

// JobNames lists the registered jobs.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

func (js *JobScheduler) runPDFCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), js.cfg.PDFCleanupInterval)
	defer cancel()

	removed, err := js.CleanupExpiredPDFs(ctx)
	if err != nil {
		js.logger.Error("pdf cleanup failed", zap.Int("removed", removed), zap.Error(err))
		return
	}
	js.logger.Info("pdf cleanup finished", zap.Int("removed", removed))
}

// CleanupExpiredPDFs deletes stored invoice PDFs older than the retention
// window. It returns how many objects were removed. A run that cannot take the
// lock is skipped without error.
func (js *JobScheduler) CleanupExpiredPDFs(ctx context.Context) (int, error) {
	if js.locker != nil {
		lock, err := js.locker.Obtain(ctx, pdfCleanupLockKey, js.cfg.PDFCleanupInterval, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			js.logger.Debug("pdf cleanup already running elsewhere")
			return 0, nil
		}
		if err != nil {
			return 0, fmt.Errorf("failed to obtain cleanup lock: %w", err)
		}
		defer func() {
			if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				js.logger.Warn("failed to release cleanup lock", zap.Error(err))
			}
		}()
	}

	cutoff := js.now().Add(-js.cfg.PDFRetention)
	objects, err := js.store.ListOlderThan(ctx, storedInvoicesDir, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list stored invoices: %w", err)
	}

	removed := 0
	var errs []error
	for _, name := range objects {
		if err := js.store.Delete(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
