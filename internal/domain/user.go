package domain

import (
	"time"

	"github.com/google/uuid"
)

// MinPasswordLength is the minimum accepted password length at registration
const MinPasswordLength = 8

// User represents a registered account holder
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	Cash         float64   `json:"cash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
