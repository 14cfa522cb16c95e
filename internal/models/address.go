package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a saved buyer/shipping party used to prefill bills.
type Address struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	GSTNumber *string   `json:"gst_number" db:"gst_number"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
