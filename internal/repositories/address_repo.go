package repositories

import (
	"context"
	"fmt"

	"billmaker/internal/models"

	"github.com/google/uuid"
)

type AddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Address, error)
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	List(ctx context.Context, userID string) ([]*models.Address, error)
}

type addressRepo struct {
	db Database
}

func NewAddressRepository(db Database) AddressRepository {
	return &addressRepo{db: db}
}

func (r *addressRepo) Create(ctx context.Context, address *models.Address) error {
	query := `
		INSERT INTO addresses (id, user_id, name, address, gst_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, address.ID, address.UserID, address.Name, address.Address, address.GSTNumber, address.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (r *addressRepo) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Address, error) {
	address := &models.Address{}
	query := `
		SELECT id, user_id, name, address, gst_number, created_at
		FROM addresses
		WHERE user_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, userID, id).Scan(&address.ID, &address.UserID, &address.Name, &address.Address, &address.GSTNumber, &address.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return address, nil
}

func (r *addressRepo) Update(ctx context.Context, address *models.Address) error {
	query := `
		UPDATE addresses
		SET name = $3, address = $4, gst_number = $5
		WHERE user_id = $1 AND id = $2
	`
	tag, err := r.db.Exec(ctx, query, address.UserID, address.ID, address.Name, address.Address, address.GSTNumber)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *addressRepo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	query := `DELETE FROM addresses WHERE user_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *addressRepo) List(ctx context.Context, userID string) ([]*models.Address, error) {
	query := `
		SELECT id, user_id, name, address, gst_number, created_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query addresses: %w", err)
	}
	defer rows.Close()

	addresses := []*models.Address{}
	for rows.Next() {
		address := &models.Address{}
		if err := rows.Scan(&address.ID, &address.UserID, &address.Name, &address.Address, &address.GSTNumber, &address.CreatedAt); err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}
	return addresses, rows.Err()
}
