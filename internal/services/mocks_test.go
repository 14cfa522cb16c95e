package services

import (
	"context"
	"io"
	"time"

	"billmaker/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) Create(ctx context.Context, bill *models.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Bill, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *MockBillRepository) Update(ctx context.Context, bill *models.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockBillRepository) List(ctx context.Context, userID string, filter models.BillFilter) ([]*models.Bill, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]*models.Bill), args.Error(1)
}

func (m *MockBillRepository) ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*models.Bill, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).([]*models.Bill), args.Error(1)
}

func (m *MockBillRepository) Summary(ctx context.Context, userID string, monthStart time.Time) (*models.BillSummary, error) {
	args := m.Called(ctx, userID, monthStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BillSummary), args.Error(1)
}

type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) Create(ctx context.Context, address *models.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockAddressRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Address, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Address), args.Error(1)
}

func (m *MockAddressRepository) Update(ctx context.Context, address *models.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockAddressRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockAddressRepository) List(ctx context.Context, userID string) ([]*models.Address, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.Address), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetBill(ctx context.Context, userID string, billID uuid.UUID) (*models.Bill, error) {
	args := m.Called(ctx, userID, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *MockCacheService) SetBill(ctx context.Context, bill *models.Bill, ttl time.Duration) error {
	args := m.Called(ctx, bill, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteBill(ctx context.Context, userID string, billID uuid.UUID) error {
	args := m.Called(ctx, userID, billID)
	return args.Error(0)
}

func (m *MockCacheService) GetSummary(ctx context.Context, userID string) (*models.BillSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BillSummary), args.Error(1)
}

func (m *MockCacheService) SetSummary(ctx context.Context, userID string, summary *models.BillSummary, ttl time.Duration) error {
	args := m.Called(ctx, userID, summary, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteSummary(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateUserCache(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDocumentStore) Upload(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockDocumentStore) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStore) Delete(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func (m *MockDocumentStore) ListOlderThan(ctx context.Context, prefix string, cutoff time.Time) ([]string, error) {
	args := m.Called(ctx, prefix, cutoff)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDocumentStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
