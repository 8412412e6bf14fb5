package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is one row of the trade ledger. Rows are append-only and never
// updated: current holdings are derived by summing Shares per symbol.
// Shares are signed, positive for buys and negative for sells.
type Transaction struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Symbol       string    `json:"symbol"`
	Shares       int64     `json:"shares"`
	SharePrice   float64   `json:"share_price"`
	TransactedAt time.Time `json:"transacted_at"`
	ActionType   string    `json:"action_type"`
}

// ActionType constants
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
)

// Holding is the aggregate net share count for one symbol. A symbol is held
// iff the sum over its ledger rows is positive.
type Holding struct {
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}
