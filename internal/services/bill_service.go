package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"billmaker/internal/caching"
	"billmaker/internal/common"
	"billmaker/internal/gst"
	"billmaker/internal/models"
	"billmaker/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBillInput is the user-entered part of a bill. Derived amounts are
// never accepted from the caller.
type CreateBillInput struct {
	BillNo          string  `json:"bill_no" validate:"required,max=50"`
	BillingDate     string  `json:"billing_date" validate:"required"`
	VehicleNumber   *string `json:"vehicle_number,omitempty" validate:"omitempty,max=20"`
	Quantity        int     `json:"quantity" validate:"required,min=1"`
	TotalAmount     float64 `json:"total_amount" validate:"required,gt=0"`
	BuyerName       *string `json:"buyer_name,omitempty" validate:"omitempty,max=200"`
	BuyerAddress    string  `json:"buyer_address" validate:"required,max=1000"`
	BuyerGST        *string `json:"buyer_gst,omitempty"`
	ShippingName    *string `json:"shipping_name,omitempty" validate:"omitempty,max=200"`
	ShippingAddress *string `json:"shipping_address,omitempty" validate:"omitempty,max=1000"`
	ShippingGST     *string `json:"shipping_gst,omitempty"`
	IsSameAddress   bool    `json:"is_same_address"`
}

// UpdateBillInput is a partial patch; nil fields keep their stored value.
type UpdateBillInput struct {
	BillNo          *string  `json:"bill_no,omitempty" validate:"omitempty,max=50"`
	BillingDate     *string  `json:"billing_date,omitempty"`
	VehicleNumber   *string  `json:"vehicle_number,omitempty" validate:"omitempty,max=20"`
	Quantity        *int     `json:"quantity,omitempty"`
	TotalAmount     *float64 `json:"total_amount,omitempty"`
	BuyerName       *string  `json:"buyer_name,omitempty" validate:"omitempty,max=200"`
	BuyerAddress    *string  `json:"buyer_address,omitempty" validate:"omitempty,max=1000"`
	BuyerGST        *string  `json:"buyer_gst,omitempty"`
	ShippingName    *string  `json:"shipping_name,omitempty" validate:"omitempty,max=200"`
	ShippingAddress *string  `json:"shipping_address,omitempty" validate:"omitempty,max=1000"`
	ShippingGST     *string  `json:"shipping_gst,omitempty"`
	IsSameAddress   *bool    `json:"is_same_address,omitempty"`
}

// TaxPreview is the engine output for a form that has not been saved yet.
type TaxPreview struct {
	TaxRate          float64 `json:"tax_rate"`
	SplitPolicy      string  `json:"split_policy"`
	TotalAmount      float64 `json:"total_amount"`
	Rate             float64 `json:"rate"`
	TaxlessAmount    float64 `json:"taxless_amount"`
	CGSTAmount       float64 `json:"cgst_amount"`
	SGSTAmount       float64 `json:"sgst_amount"`
	TotalTax         float64 `json:"total_tax"`
	Drift            float64 `json:"drift"`
	AmountInWords    string  `json:"amount_in_words"`
	TaxAmountInWords string  `json:"tax_amount_in_words"`
}

type BillSettings struct {
	TaxRatePercent float64
	SplitPolicy    gst.SplitPolicy
	CacheTTL       time.Duration
}

type BillService interface {
	Create(ctx context.Context, userID string, input CreateBillInput) (*models.Bill, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Bill, error)
	List(ctx context.Context, userID string, filter models.BillFilter) ([]*models.Bill, error)
	ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*models.Bill, error)
	Update(ctx context.Context, userID string, id uuid.UUID, input UpdateBillInput) (*models.Bill, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	PreviewTax(totalAmount float64, quantity int) (*TaxPreview, error)
}

type billService struct {
	billRepo repositories.BillRepository
	cache    caching.CacheService
	settings BillSettings
	logger   *zap.Logger
}

func NewBillService(billRepo repositories.BillRepository, cache caching.CacheService, settings BillSettings, logger *zap.Logger) BillService {
	return &billService{
		billRepo: billRepo,
		cache:    cache,
		settings: settings,
		logger:   logger,
	}
}

func (s *billService) Create(ctx context.Context, userID string, input CreateBillInput) (*models.Bill, error) {
	billingDate, err := common.ParseDate(input.BillingDate, "billing_date")
	if err != nil {
		return nil, invalid("billing_date", err)
	}

	now := time.Now().UTC()
	bill := &models.Bill{
		ID:              uuid.New(),
		UserID:          userID,
		BillNo:          input.BillNo,
		BillingDate:     billingDate,
		VehicleNumber:   input.VehicleNumber,
		Quantity:        input.Quantity,
		TotalAmount:     input.TotalAmount,
		BuyerName:       input.BuyerName,
		BuyerAddress:    input.BuyerAddress,
		BuyerGST:        input.BuyerGST,
		ShippingName:    input.ShippingName,
		ShippingAddress: input.ShippingAddress,
		ShippingGST:     input.ShippingGST,
		IsSameAddress:   input.IsSameAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := prepareBill(bill); err != nil {
		return nil, err
	}
	if err := s.deriveTax(bill, s.settings.TaxRatePercent, s.settings.SplitPolicy); err != nil {
		return nil, err
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}

	s.logger.Info("bill created",
		zap.String("user_id", userID),
		zap.String("bill_id", bill.ID.String()),
		zap.String("bill_no", bill.BillNo))
	s.dropSummary(ctx, userID)
	return bill, nil
}

func (s *billService) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Bill, error) {
	cached, err := s.cache.GetBill(ctx, userID, id)
	if err != nil {
		s.logger.Warn("bill cache read failed", zap.String("bill_id", id.String()), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	bill, err := s.billRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetBill(ctx, bill, s.settings.CacheTTL); err != nil {
		s.logger.Warn("bill cache write failed", zap.String("bill_id", id.String()), zap.Error(err))
	}
	return bill, nil
}

func (s *billService) List(ctx context.Context, userID string, filter models.BillFilter) ([]*models.Bill, error) {
	limit, offset, err := common.ValidatePaginationParams(filter.Limit, filter.Offset)
	if err != nil {
		return nil, invalid("offset", err)
	}
	filter.Limit, filter.Offset = limit, offset
	filter.Search = common.SanitizeSearchQuery(filter.Search)

	if filter.From != nil && filter.To != nil {
		if err := common.ValidateDateRange(*filter.From, *filter.To); err != nil {
			return nil, invalid("to", err)
		}
	}
	return s.billRepo.List(ctx, userID, filter)
}

func (s *billService) ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*models.Bill, error) {
	if err := common.ValidateDateRange(from, to); err != nil {
		return nil, invalid("to", err)
	}
	return s.billRepo.ListByDateRange(ctx, userID, from, to)
}

// Update applies a partial patch. When the total or quantity changes every
// derived amount is recomputed from the merged values with the bill's own tax
// rate and split policy, so a bill issued under older settings keeps them.
func (s *billService) Update(ctx context.Context, userID string, id uuid.UUID, input UpdateBillInput) (*models.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.BillNo != nil {
		bill.BillNo = *input.BillNo
	}
	if input.BillingDate != nil {
		billingDate, err := common.ParseDate(*input.BillingDate, "billing_date")
		if err != nil {
			return nil, invalid("billing_date", err)
		}
		bill.BillingDate = billingDate
	}
	if input.VehicleNumber != nil {
		bill.VehicleNumber = input.VehicleNumber
	}
	if input.BuyerName != nil {
		bill.BuyerName = input.BuyerName
	}
	if input.BuyerAddress != nil {
		bill.BuyerAddress = *input.BuyerAddress
	}
	if input.BuyerGST != nil {
		bill.BuyerGST = input.BuyerGST
	}
	if input.ShippingName != nil {
		bill.ShippingName = input.ShippingName
	}
	if input.ShippingAddress != nil {
		bill.ShippingAddress = input.ShippingAddress
	}
	if input.ShippingGST != nil {
		bill.ShippingGST = input.ShippingGST
	}
	if input.IsSameAddress != nil {
		bill.IsSameAddress = *input.IsSameAddress
	}

	rederive := input.TotalAmount != nil || input.Quantity != nil
	if input.TotalAmount != nil {
		bill.TotalAmount = *input.TotalAmount
	}
	if input.Quantity != nil {
		bill.Quantity = *input.Quantity
	}

	if err := prepareBill(bill); err != nil {
		return nil, err
	}
	if rederive {
		if err := s.deriveTax(bill, bill.TaxRate, s.storedPolicy(bill)); err != nil {
			return nil, err
		}
	}
	bill.UpdatedAt = time.Now().UTC()

	if err := s.billRepo.Update(ctx, bill); err != nil {
		return nil, err
	}

	s.logger.Info("bill updated",
		zap.String("user_id", userID),
		zap.String("bill_id", id.String()),
		zap.Bool("rederived", rederive))
	s.dropBill(ctx, userID, id)
	return bill, nil
}

func (s *billService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if err := s.billRepo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("bill deleted", zap.String("user_id", userID), zap.String("bill_id", id.String()))
	s.dropBill(ctx, userID, id)
	return nil
}

func (s *billService) PreviewTax(totalAmount float64, quantity int) (*TaxPreview, error) {
	if err := checkAmounts(totalAmount, quantity); err != nil {
		return nil, err
	}
	fields, err := gst.DeriveTaxFields(totalAmount, quantity, s.settings.TaxRatePercent, s.settings.SplitPolicy)
	if err != nil {
		return nil, invalid("total_amount", err)
	}

	words, err := gst.AmountInWordsDecimal(fields.TotalAmount)
	if err != nil {
		return nil, invalid("total_amount", err)
	}
	taxWords, err := gst.AmountInWordsDecimal(fields.TotalTax)
	if err != nil {
		return nil, invalid("total_amount", err)
	}

	var bill models.Bill
	bill.ApplyTaxFields(s.settings.TaxRatePercent, s.settings.SplitPolicy, fields)
	drift, _ := fields.Drift().Float64()

	return &TaxPreview{
		TaxRate:          bill.TaxRate,
		SplitPolicy:      string(s.settings.SplitPolicy),
		TotalAmount:      bill.TotalAmount,
		Rate:             bill.Rate,
		TaxlessAmount:    bill.TaxlessAmount,
		CGSTAmount:       bill.CGSTAmount,
		SGSTAmount:       bill.SGSTAmount,
		TotalTax:         bill.TotalTax,
		Drift:            drift,
		AmountInWords:    words,
		TaxAmountInWords: taxWords,
	}, nil
}

func (s *billService) deriveTax(bill *models.Bill, taxRate float64, policy gst.SplitPolicy) error {
	if err := checkAmounts(bill.TotalAmount, bill.Quantity); err != nil {
		return err
	}
	fields, err := gst.DeriveTaxFields(bill.TotalAmount, bill.Quantity, taxRate, policy)
	if err != nil {
		return invalid("total_amount", err)
	}
	bill.ApplyTaxFields(taxRate, policy, fields)
	return nil
}

// storedPolicy is the split policy a bill was derived with. Rows written
// before the policy was recorded fall back to the configured one.
func (s *billService) storedPolicy(bill *models.Bill) gst.SplitPolicy {
	policy, err := gst.ParseSplitPolicy(bill.SplitPolicy)
	if err != nil {
		s.logger.Warn("bill has no usable split policy, using configured policy",
			zap.String("bill_id", bill.ID.String()),
			zap.String("stored", bill.SplitPolicy))
		return s.settings.SplitPolicy
	}
	return policy
}

// dropBill and dropSummary evict stale cache entries. Failures are logged, not returned.
func (s *billService) dropBill(ctx context.Context, userID string, id uuid.UUID) {
	if err := s.cache.DeleteBill(ctx, userID, id); err != nil {
		s.logger.Warn("bill cache eviction failed", zap.String("bill_id", id.String()), zap.Error(err))
	}
	s.dropSummary(ctx, userID)
}

func (s *billService) dropSummary(ctx context.Context, userID string) {
	if err := s.cache.DeleteSummary(ctx, userID); err != nil {
		s.logger.Warn("summary cache eviction failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func checkAmounts(totalAmount float64, quantity int) error {
	if quantity < 1 {
		return invalid("quantity", fmt.Errorf("%w: quantity must be at least 1", gst.ErrInvalidInput))
	}
	if math.IsNaN(totalAmount) || math.IsInf(totalAmount, 0) || totalAmount <= 0 {
		return invalid("total_amount", fmt.Errorf("%w: total amount must be a positive number", gst.ErrInvalidInput))
	}
	if math.Round(totalAmount*100) < 1 {
		return invalid("total_amount", fmt.Errorf("%w: total amount must be at least 0.01", gst.ErrInvalidInput))
	}
	return nil
}

// prepareBill trims and normalizes the user-entered fields in place and
// checks them. A same-as-buyer bill gets its shipping block from the buyer.
func prepareBill(bill *models.Bill) error {
	bill.BillNo = strings.TrimSpace(bill.BillNo)
	bill.BuyerAddress = strings.TrimSpace(bill.BuyerAddress)
	bill.BuyerGST = common.NormalizeGSTIN(bill.BuyerGST)
	bill.ShippingGST = common.NormalizeGSTIN(bill.ShippingGST)

	if err := common.ValidateRequiredString(bill.BillNo, "bill_no"); err != nil {
		return invalid("bill_no", err)
	}
	if err := common.ValidateRequiredString(bill.BuyerAddress, "buyer_address"); err != nil {
		return invalid("buyer_address", err)
	}
	if err := common.ValidateOptionalString(bill.VehicleNumber, "vehicle_number", 20); err != nil {
		return invalid("vehicle_number", err)
	}
	if err := common.ValidateOptionalString(bill.BuyerName, "buyer_name", 200); err != nil {
		return invalid("buyer_name", err)
	}
	if err := common.ValidateGSTIN(common.SafeString(bill.BuyerGST), "buyer_gst"); err != nil {
		return invalid("buyer_gst", err)
	}

	if bill.IsSameAddress {
		bill.CopyBuyerToShipping()
		return nil
	}

	if err := common.ValidateOptionalString(bill.ShippingAddress, "shipping_address", 1000); err != nil {
		return invalid("shipping_address", err)
	}
	if common.SafeString(bill.ShippingAddress) == "" {
		return invalid("shipping_address", errors.New("shipping address is required unless it is the same as the buyer address"))
	}
	if err := common.ValidateOptionalString(bill.ShippingName, "shipping_name", 200); err != nil {
		return invalid("shipping_name", err)
	}
	if err := common.ValidateGSTIN(common.SafeString(bill.ShippingGST), "shipping_gst"); err != nil {
		return invalid("shipping_gst", err)
	}
	return nil
}
