package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"stocksim/internal/domain"
)

// BrokerService handles quotes, trades and portfolio valuation
type BrokerService struct {
	userRepo   domain.UserRepository
	ledgerRepo domain.LedgerRepository
	quotes     domain.QuoteService
}

// NewBrokerService creates a new BrokerService
func NewBrokerService(
	userRepo domain.UserRepository,
	ledgerRepo domain.LedgerRepository,
	quotes domain.QuoteService,
) *BrokerService {
	return &BrokerService{
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		quotes:     quotes,
	}
}

// Quote fetches a fresh quote for a symbol
func (s *BrokerService) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: you must provide a symbol", domain.ErrInvalidInput)
	}
	return s.quotes.Lookup(ctx, symbol)
}

// Buy purchases shares at the current quote price. The funds check, the
// cash debit and the ledger append happen atomically in the repository.
func (s *BrokerService) Buy(ctx context.Context, userID uuid.UUID, symbol string, shares int64) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return fmt.Errorf("%w: you must provide a symbol", domain.ErrInvalidInput)
	}
	if shares <= 0 {
		return fmt.Errorf("%w: shares must be a positive number", domain.ErrInvalidInput)
	}

	quote, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return err
	}

	if err := s.ledgerRepo.ExecuteBuy(ctx, userID, quote.Symbol, shares, quote.Price); err != nil {
		return err
	}

	log.Printf("[OK] Buy executed: user=%s %d x %s @ %.2f", userID, shares, quote.Symbol, quote.Price)
	return nil
}

// Sell sells held shares at the current quote price. The holdings check is
// recomputed from the ledger inside the repository transaction.
func (s *BrokerService) Sell(ctx context.Context, userID uuid.UUID, symbol string, shares int64) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return fmt.Errorf("%w: you must provide a symbol", domain.ErrInvalidInput)
	}
	if shares <= 0 {
		return fmt.Errorf("%w: you can only sell a positive number of shares", domain.ErrInvalidInput)
	}

	quote, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return err
	}

	if err := s.ledgerRepo.ExecuteSell(ctx, userID, quote.Symbol, shares, quote.Price); err != nil {
		return err
	}

	log.Printf("[OK] Sell executed: user=%s %d x %s @ %.2f", userID, shares, quote.Symbol, quote.Price)
	return nil
}

// Portfolio revalues every held symbol at a fresh quote and returns the
// positions together with cash and the grand total. A failed lookup marks
// that row price-unavailable instead of failing the whole request.
func (s *BrokerService) Portfolio(ctx context.Context, userID uuid.UUID) (*domain.Portfolio, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	holdings, err := s.ledgerRepo.GetHoldings(ctx, userID)
	if err != nil {
		return nil, err
	}

	portfolio := &domain.Portfolio{
		Positions:  make([]domain.Position, 0, len(holdings)),
		Cash:       user.Cash,
		GrandTotal: user.Cash,
	}

	for _, h := range holdings {
		position := domain.Position{
			Symbol: h.Symbol,
			Shares: h.Shares,
		}

		quote, err := s.quotes.Lookup(ctx, h.Symbol)
		if err != nil {
			log.Printf("WARNING: quote lookup failed for held symbol %s: %v", h.Symbol, err)
			position.PriceUnavailable = true
		} else {
			position.Price = quote.Price
			position.Value = quote.Price * float64(h.Shares)
			portfolio.GrandTotal += position.Value
		}

		portfolio.Positions = append(portfolio.Positions, position)
	}

	return portfolio, nil
}

// Holdings returns the symbols the user currently holds
func (s *BrokerService) Holdings(ctx context.Context, userID uuid.UUID) ([]domain.Holding, error) {
	return s.ledgerRepo.GetHoldings(ctx, userID)
}

// History returns the user's full transaction log, oldest first
func (s *BrokerService) History(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	return s.ledgerRepo.ListByUser(ctx, userID)
}
