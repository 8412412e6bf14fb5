package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user. Returns ErrUsernameTaken if the
	// username already exists.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// LedgerRepository defines the interface for the trade ledger.
//
// ExecuteBuy and ExecuteSell run the balance check, the cash mutation and
// the ledger append as one atomic unit with the user row locked, so
// concurrent trades for the same user serialize.
type LedgerRepository interface {
	// ExecuteBuy debits price*shares from the user's cash and appends a
	// buy row. Returns ErrInsufficientFunds if the cost exceeds cash.
	ExecuteBuy(ctx context.Context, userID uuid.UUID, symbol string, shares int64, price float64) error

	// ExecuteSell credits price*shares to the user's cash and appends a
	// sell row with negative shares. Returns ErrInsufficientHoldings if
	// the user holds fewer than shares of the symbol.
	ExecuteSell(ctx context.Context, userID uuid.UUID, symbol string, shares int64, price float64) error

	// GetHoldings retrieves every symbol with a positive aggregate share
	// count for the user
	GetHoldings(ctx context.Context, userID uuid.UUID) ([]Holding, error)

	// ListByUser retrieves the user's full transaction log ordered by
	// transaction time ascending
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)
}
