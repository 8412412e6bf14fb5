package domain

import "context"

// Quote is a point-in-time price for a symbol from the external provider
type Quote struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}

// QuoteService defines the interface for looking up quotes.
// Lookup returns ErrUnknownSymbol for any non-success result from the
// provider; prices are fetched fresh on every call, never cached.
type QuoteService interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}
