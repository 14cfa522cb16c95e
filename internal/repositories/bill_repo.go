package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"billmaker/internal/models"

	"github.com/google/uuid"
)

const billColumns = `id, user_id, bill_no, billing_date, vehicle_number, quantity, total_amount,
		buyer_name, buyer_address, buyer_gst, shipping_name, shipping_address, shipping_gst, is_same_address,
		tax_rate, split_policy, rate, taxless_amount, cgst_amount, sgst_amount, total_tax, created_at, updated_at`

type BillRepository interface {
	Create(ctx context.Context, bill *models.Bill) error
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Bill, error)
	Update(ctx context.Context, bill *models.Bill) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	List(ctx context.Context, userID string, filter models.BillFilter) ([]*models.Bill, error)
	ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*models.Bill, error)
	Summary(ctx context.Context, userID string, monthStart time.Time) (*models.BillSummary, error)
}

type billRepo struct {
	db Database
}

func NewBillRepository(db Database) BillRepository {
	return &billRepo{db: db}
}

func (r *billRepo) Create(ctx context.Context, bill *models.Bill) error {
	query := `
		INSERT INTO bills (` + billColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`
	_, err := r.db.Exec(ctx, query,
		bill.ID, bill.UserID, bill.BillNo, bill.BillingDate, bill.VehicleNumber, bill.Quantity, bill.TotalAmount,
		bill.BuyerName, bill.BuyerAddress, bill.BuyerGST, bill.ShippingName, bill.ShippingAddress, bill.ShippingGST, bill.IsSameAddress,
		bill.TaxRate, bill.SplitPolicy, bill.Rate, bill.TaxlessAmount, bill.CGSTAmount, bill.SGSTAmount, bill.TotalTax, bill.CreatedAt, bill.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

func (r *billRepo) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bills
		WHERE user_id = $1 AND id = $2
	`
	bill, err := scanBill(r.db.QueryRow(ctx, query, userID, id))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return bill, nil
}

func (r *billRepo) Update(ctx context.Context, bill *models.Bill) error {
	query := `
		UPDATE bills
		SET bill_no = $3, billing_date = $4, vehicle_number = $5, quantity = $6, total_amount = $7,
			buyer_name = $8, buyer_address = $9, buyer_gst = $10,
			shipping_name = $11, shipping_address = $12, shipping_gst = $13, is_same_address = $14,
			tax_rate = $15, split_policy = $16, rate = $17, taxless_amount = $18, cgst_amount = $19, sgst_amount = $20,
			total_tax = $21, updated_at = $22
		WHERE user_id = $1 AND id = $2
	`
	tag, err := r.db.Exec(ctx, query,
		bill.UserID, bill.ID,
		bill.BillNo, bill.BillingDate, bill.VehicleNumber, bill.Quantity, bill.TotalAmount,
		bill.BuyerName, bill.BuyerAddress, bill.BuyerGST,
		bill.ShippingName, bill.ShippingAddress, bill.ShippingGST, bill.IsSameAddress,
		bill.TaxRate, bill.SplitPolicy, bill.Rate, bill.TaxlessAmount, bill.CGSTAmount, bill.SGSTAmount, bill.TotalTax,
		bill.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *billRepo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	query := `DELETE FROM bills WHERE user_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the user's bills newest first.
func (r *billRepo) List(ctx context.Context, userID string, filter models.BillFilter) ([]*models.Bill, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("billing_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("billing_date <= $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(bill_no ILIKE $%d OR buyer_name ILIKE $%d)", len(args), len(args)))
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `
		SELECT ` + billColumns + `
		FROM bills
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY created_at DESC
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	return r.queryBills(ctx, query, args...)
}

// ListByDateRange returns every bill dated within [from, to] in register order.
func (r *billRepo) ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*models.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bills
		WHERE user_id = $1 AND billing_date BETWEEN $2 AND $3
		ORDER BY billing_date ASC, bill_no ASC
	`
	return r.queryBills(ctx, query, userID, from, to)
}

func (r *billRepo) Summary(ctx context.Context, userID string, monthStart time.Time) (*models.BillSummary, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE billing_date >= $2),
			COALESCE(SUM(total_amount), 0),
			COALESCE(SUM(taxless_amount), 0),
			COALESCE(SUM(cgst_amount), 0),
			COALESCE(SUM(sgst_amount), 0),
			COALESCE(SUM(total_tax), 0)
		FROM bills
		WHERE user_id = $1
	`
	summary := &models.BillSummary{}
	err := r.db.QueryRow(ctx, query, userID, monthStart).Scan(
		&summary.TotalBills, &summary.BillsThisMonth, &summary.TotalAmount, &summary.TotalTaxableAmount,
		&summary.TotalCGST, &summary.TotalSGST, &summary.TotalTax)
	if err != nil {
		return nil, fmt.Errorf("summarise bills: %w", err)
	}
	summary.LastUpdated = time.Now()
	return summary, nil
}

func (r *billRepo) queryBills(ctx context.Context, query string, args ...any) ([]*models.Bill, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bills: %w", err)
	}
	defer rows.Close()

	bills := []*models.Bill{}
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

func scanBill(row rowScanner) (*models.Bill, error) {
	bill := &models.Bill{}
	err := row.Scan(
		&bill.ID, &bill.UserID, &bill.BillNo, &bill.BillingDate, &bill.VehicleNumber, &bill.Quantity, &bill.TotalAmount,
		&bill.BuyerName, &bill.BuyerAddress, &bill.BuyerGST, &bill.ShippingName, &bill.ShippingAddress, &bill.ShippingGST, &bill.IsSameAddress,
		&bill.TaxRate, &bill.SplitPolicy, &bill.Rate, &bill.TaxlessAmount, &bill.CGSTAmount, &bill.SGSTAmount, &bill.TotalTax, &bill.CreatedAt, &bill.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return bill, nil
}
