package analytics

import (
	"context"
	"time"

	"billmaker/internal/caching"
	"billmaker/internal/models"
	"billmaker/internal/repositories"

	"go.uber.org/zap"
)

// SummaryService computes the dashboard figures for one user.
type SummaryService struct {
	billRepo     repositories.BillRepository
	cacheService caching.CacheService
	cacheTTL     time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

func NewSummaryService(billRepo repositories.BillRepository, cacheService caching.CacheService, cacheTTL time.Duration, logger *zap.Logger) *SummaryService {
	return &SummaryService{
		billRepo:     billRepo,
		cacheService: cacheService,
		cacheTTL:     cacheTTL,
		logger:       logger,
		now:          time.Now,
	}
}

func (a *SummaryService) GetSummary(ctx context.Context, userID string) (*models.BillSummary, error) {
	cached, err := a.cacheService.GetSummary(ctx, userID)
	if err != nil {
		a.logger.Warn("summary cache read failed", zap.String("user_id", userID), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	summary, err := a.billRepo.Summary(ctx, userID, MonthStart(a.now()))
	if err != nil {
		a.logger.Error("failed to summarise bills", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	if err := a.cacheService.SetSummary(ctx, userID, summary, a.cacheTTL); err != nil {
		a.logger.Warn("summary cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
	return summary, nil
}

// MonthStart is midnight on the first day of t's month, in t's location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
