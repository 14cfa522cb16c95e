package services

import (
	"context"
	"strings"
	"time"

	"billmaker/internal/common"
	"billmaker/internal/models"
	"billmaker/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AddressInput struct {
	Name      string  `json:"name" validate:"required,max=200"`
	Address   string  `json:"address" validate:"required,max=1000"`
	GSTNumber *string `json:"gst_number,omitempty"`
}

type AddressService interface {
	Create(ctx context.Context, userID string, input AddressInput) (*models.Address, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Address, error)
	List(ctx context.Context, userID string) ([]*models.Address, error)
	Update(ctx context.Context, userID string, id uuid.UUID, input AddressInput) (*models.Address, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

type addressService struct {
	addressRepo repositories.AddressRepository
	logger      *zap.Logger
}

func NewAddressService(addressRepo repositories.AddressRepository, logger *zap.Logger) AddressService {
	return &addressService{addressRepo: addressRepo, logger: logger}
}

func (s *addressService) Create(ctx context.Context, userID string, input AddressInput) (*models.Address, error) {
	address := &models.Address{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := applyAddressInput(address, input); err != nil {
		return nil, err
	}

	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, err
	}
	s.logger.Info("address saved", zap.String("user_id", userID), zap.String("address_id", address.ID.String()))
	return address, nil
}

func (s *addressService) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Address, error) {
	return s.addressRepo.GetByID(ctx, userID, id)
}

func (s *addressService) List(ctx context.Context, userID string) ([]*models.Address, error) {
	return s.addressRepo.List(ctx, userID)
}

func (s *addressService) Update(ctx context.Context, userID string, id uuid.UUID, input AddressInput) (*models.Address, error) {
	address, err := s.addressRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := applyAddressInput(address, input); err != nil {
		return nil, err
	}

	if err := s.addressRepo.Update(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *addressService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return s.addressRepo.Delete(ctx, userID, id)
}

func applyAddressInput(address *models.Address, input AddressInput) error {
	name := strings.TrimSpace(input.Name)
	body := strings.TrimSpace(input.Address)
	gstin := common.NormalizeGSTIN(input.GSTNumber)

	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return invalid("name", err)
	}
	if err := common.ValidateRequiredString(body, "address"); err != nil {
		return invalid("address", err)
	}
	if err := common.ValidateGSTIN(common.SafeString(gstin), "gst_number"); err != nil {
		return invalid("gst_number", err)
	}

	address.Name = name
	address.Address = body
	address.GSTNumber = gstin
	return nil
}
