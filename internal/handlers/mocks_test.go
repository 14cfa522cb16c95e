package handlers

import (
	"context"
	"io"
	"time"

	"billmaker/internal/models"
	"billmaker/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockBillService struct {
	mock.Mock
}

func (m *MockBillService) Create(ctx context.Context, userID string, input services.CreateBillInput) (*models.Bill, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *MockBillService) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Bill, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *MockBillService) List(ctx context.Context, userID string, filter models.BillFilter) ([]*models.Bill, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bill), args.Error(1)
}

func (m *MockBillService) ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*models.Bill, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bill), args.Error(1)
}

func (m *MockBillService) Update(ctx context.Context, userID string, id uuid.UUID, input services.UpdateBillInput) (*models.Bill, error) {
	args := m.Called(ctx, userID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *MockBillService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockBillService) PreviewTax(totalAmount float64, quantity int) (*services.TaxPreview, error) {
	args := m.Called(totalAmount, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TaxPreview), args.Error(1)
}

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) RenderPDF(ctx context.Context, userID string, billID uuid.UUID) (*models.Bill, []byte, error) {
	args := m.Called(ctx, userID, billID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Bill), args.Get(1).([]byte), args.Error(2)
}

func (m *MockInvoiceService) StorePDF(ctx context.Context, userID string, billID uuid.UUID) (*services.StoredInvoice, error) {
	args := m.Called(ctx, userID, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.StoredInvoice), args.Error(1)
}

type MockRegisterExporter struct {
	mock.Mock
}

func (m *MockRegisterExporter) Export(ctx context.Context, userID string, from, to time.Time, format services.ExportFormat, w io.Writer) error {
	args := m.Called(ctx, userID, from, to, format, w)
	if content := args.String(1); content != "" {
		_, _ = io.WriteString(w, content)
	}
	return args.Error(0)
}

type MockAddressService struct {
	mock.Mock
}

func (m *MockAddressService) Create(ctx context.Context, userID string, input services.AddressInput) (*models.Address, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Address), args.Error(1)
}

func (m *MockAddressService) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Address, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Address), args.Error(1)
}

func (m *MockAddressService) List(ctx context.Context, userID string) ([]*models.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Address), args.Error(1)
}

func (m *MockAddressService) Update(ctx context.Context, userID string, id uuid.UUID, input services.AddressInput) (*models.Address, error) {
	args := m.Called(ctx, userID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Address), args.Error(1)
}

func (m *MockAddressService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type MockSummaryProvider struct {
	mock.Mock
}

func (m *MockSummaryProvider) GetSummary(ctx context.Context, userID string) (*models.BillSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BillSummary), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}
