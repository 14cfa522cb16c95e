package services

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"time"

	"billmaker/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// StoredInvoice points at a rendered invoice in object storage.
type StoredInvoice struct {
	ObjectName string    `json:"object_name"`
	URL        string    `json:"pdf_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type InvoiceService interface {
	RenderPDF(ctx context.Context, userID string, billID uuid.UUID) (*models.Bill, []byte, error)
	StorePDF(ctx context.Context, userID string, billID uuid.UUID) (*StoredInvoice, error)
}

type invoiceService struct {
	bills        BillService
	renderer     *InvoiceRenderer
	store        DocumentStore
	presignedTTL time.Duration
	logger       *zap.Logger
}

func NewInvoiceService(bills BillService, renderer *InvoiceRenderer, store DocumentStore, presignedTTL time.Duration, logger *zap.Logger) InvoiceService {
	return &invoiceService{
		bills:        bills,
		renderer:     renderer,
		store:        store,
		presignedTTL: presignedTTL,
		logger:       logger,
	}
}

func (s *invoiceService) RenderPDF(ctx context.Context, userID string, billID uuid.UUID) (*models.Bill, []byte, error) {
	bill, err := s.bills.GetByID(ctx, userID, billID)
	if err != nil {
		return nil, nil, err
	}

	pdfBytes, err := s.renderer.Render(bill)
	if err != nil {
		return nil, nil, err
	}
	if len(pdfBytes) == 0 {
		return nil, nil, fmt.Errorf("generated PDF for bill %s is empty", billID)
	}
	return bill, pdfBytes, nil
}

func (s *invoiceService) StorePDF(ctx context.Context, userID string, billID uuid.UUID) (*StoredInvoice, error) {
	_, pdfBytes, err := s.RenderPDF(ctx, userID, billID)
	if err != nil {
		return nil, err
	}

	objectName := invoiceObjectName(userID, billID)
	if err := s.store.Upload(ctx, objectName, bytes.NewReader(pdfBytes), int64(len(pdfBytes)), pdfContentType); err != nil {
		return nil, fmt.Errorf("failed to upload PDF to storage: %w", err)
	}

	url, err := s.store.PresignedURL(ctx, objectName, s.presignedTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate download URL: %w", err)
	}

	s.logger.Info("invoice PDF stored",
		zap.String("user_id", userID),
		zap.String("bill_id", billID.String()),
		zap.String("object", objectName),
		zap.Int("bytes", len(pdfBytes)))

	return &StoredInvoice{
		ObjectName: objectName,
		URL:        url,
		ExpiresAt:  time.Now().UTC().Add(s.presignedTTL),
	}, nil
}

// InvoiceFileName is the download name for a bill's PDF.
func InvoiceFileName(bill *models.Bill) string {
	name := unsafeFileChars.ReplaceAllString(bill.BillNo, "-")
	if name == "" || name == "-" {
		name = bill.ID.String()
	}
	return "invoice-" + name + ".pdf"
}
