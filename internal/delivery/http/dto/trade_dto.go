package dto

import (
	"fmt"
	"strconv"
	"strings"

	"stocksim/internal/domain"
)

// QuoteForm represents the quote form submission
type QuoteForm struct {
	Symbol string `form:"symbol"`
}

// Validate checks the form fields
func (f *QuoteForm) Validate() error {
	if strings.TrimSpace(f.Symbol) == "" {
		return fmt.Errorf("%w: you must provide a symbol", domain.ErrInvalidInput)
	}
	return nil
}

// TradeForm represents a buy or sell form submission. Shares stays a string
// until Validate so a malformed count is a validation error, not a panic.
type TradeForm struct {
	Symbol string `form:"symbol"`
	Shares string `form:"shares"`
}

// Validate checks the form fields and returns the parsed share count
func (f *TradeForm) Validate() (int64, error) {
	if strings.TrimSpace(f.Symbol) == "" {
		return 0, fmt.Errorf("%w: you must provide a symbol", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(f.Shares) == "" {
		return 0, fmt.Errorf("%w: you must provide the number of shares", domain.ErrInvalidInput)
	}

	shares, err := strconv.ParseInt(strings.TrimSpace(f.Shares), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: shares must be a whole number", domain.ErrInvalidInput)
	}
	if shares <= 0 {
		return 0, fmt.Errorf("%w: shares must be a positive number", domain.ErrInvalidInput)
	}

	return shares, nil
}
