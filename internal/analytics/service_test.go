package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"billmaker/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockBillRepo struct {
	mock.Mock
}

func (m *mockBillRepo) Create(ctx context.Context, bill *models.Bill) error { return nil }
func (m *mockBillRepo) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Bill, error) {
	return nil, nil
}
func (m *mockBillRepo) Update(ctx context.Context, bill *models.Bill) error            { return nil }
func (m *mockBillRepo) Delete(ctx context.Context, userID string, id uuid.UUID) error { return nil }
func (m *mockBillRepo) List(ctx context.Context, userID string, filter models.BillFilter) ([]*models.Bill, error) {
	return nil, nil
}
func (m *mockBillRepo) ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*models.Bill, error) {
	return nil, nil
}

func (m *mockBillRepo) Summary(ctx context.Context, userID string, monthStart time.Time) (*models.BillSummary, error) {
	args := m.Called(ctx, userID, monthStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BillSummary), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetBill(ctx context.Context, userID string, billID uuid.UUID) (*models.Bill, error) {
	return nil, nil
}
func (m *mockCache) SetBill(ctx context.Context, bill *models.Bill, ttl time.Duration) error {
	return nil
}
func (m *mockCache) DeleteBill(ctx context.Context, userID string, billID uuid.UUID) error {
	return nil
}
func (m *mockCache) DeleteSummary(ctx context.Context, userID string) error       { return nil }
func (m *mockCache) InvalidateUserCache(ctx context.Context, userID string) error { return nil }
func (m *mockCache) Ping(ctx context.Context) error                               { return nil }

func (m *mockCache) GetSummary(ctx context.Context, userID string) (*models.BillSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BillSummary), args.Error(1)
}

func (m *mockCache) SetSummary(ctx context.Context, userID string, summary *models.BillSummary, ttl time.Duration) error {
	args := m.Called(ctx, userID, summary, ttl)
	return args.Error(0)
}

func newTestService(repo *mockBillRepo, cache *mockCache) *SummaryService {
	svc := NewSummaryService(repo, cache, time.Minute, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 4, 17, 15, 30, 0, 0, time.UTC) }
	return svc
}

func TestGetSummary_CacheMissQueriesCurrentMonth(t *testing.T) {
	repo, cache := new(mockBillRepo), new(mockCache)
	ctx := context.Background()
	summary := &models.BillSummary{TotalBills: 12, BillsThisMonth: 3, TotalAmount: 141600}

	cache.On("GetSummary", ctx, "user_2abc").Return(nil, nil).Once()
	repo.On("Summary", ctx, "user_2abc", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)).Return(summary, nil).Once()
	cache.On("SetSummary", ctx, "user_2abc", summary, time.Minute).Return(nil).Once()

	got, err := newTestService(repo, cache).GetSummary(ctx, "user_2abc")
	require.NoError(t, err)
	assert.Equal(t, 3, got.BillsThisMonth)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestGetSummary_CacheHit(t *testing.T) {
	repo, cache := new(mockBillRepo), new(mockCache)
	ctx := context.Background()
	cached := &models.BillSummary{TotalBills: 7}

	cache.On("GetSummary", ctx, "user_2abc").Return(cached, nil).Once()

	got, err := newTestService(repo, cache).GetSummary(ctx, "user_2abc")
	require.NoError(t, err)
	assert.Same(t, cached, got)
	repo.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetSummary_RepositoryError(t *testing.T) {
	repo, cache := new(mockBillRepo), new(mockCache)
	ctx := context.Background()

	cache.On("GetSummary", ctx, "user_2abc").Return(nil, errors.New("redis down")).Once()
	repo.On("Summary", ctx, "user_2abc", mock.Anything).Return(nil, errors.New("db down")).Once()

	_, err := newTestService(repo, cache).GetSummary(ctx, "user_2abc")
	assert.EqualError(t, err, "db down")
}

func TestMonthStart(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, ist), MonthStart(time.Date(2024, 2, 29, 23, 59, 0, 0, ist)))
}
