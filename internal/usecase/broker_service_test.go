package usecase

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksim/internal/domain"
)

// mockStore is an in-memory stand-in for both repositories. ExecuteBuy and
// ExecuteSell mirror the real repository's atomic semantics: on rejection
// neither cash nor the ledger changes.
type mockStore struct {
	users  map[uuid.UUID]*domain.User
	byName map[string]*domain.User
	rows   []*domain.Transaction
	clock  time.Time
}

func newMockStore() *mockStore {
	return &mockStore{
		users:  make(map[uuid.UUID]*domain.User),
		byName: make(map[string]*domain.User),
		clock:  time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC),
	}
}

func (m *mockStore) Create(ctx context.Context, user *domain.User) error {
	if _, ok := m.byName[user.Username]; ok {
		return domain.ErrUsernameTaken
	}
	u := *user
	m.users[u.ID] = &u
	m.byName[u.Username] = &u
	return nil
}

func (m *mockStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *mockStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, ok := m.byName[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *mockStore) append(userID uuid.UUID, symbol string, shares int64, price float64, action string) {
	m.clock = m.clock.Add(time.Second)
	m.rows = append(m.rows, &domain.Transaction{
		ID:           uuid.New(),
		UserID:       userID,
		Symbol:       symbol,
		Shares:       shares,
		SharePrice:   price,
		TransactedAt: m.clock,
		ActionType:   action,
	})
}

func (m *mockStore) held(userID uuid.UUID, symbol string) int64 {
	var total int64
	for _, row := range m.rows {
		if row.UserID == userID && row.Symbol == symbol {
			total += row.Shares
		}
	}
	return total
}

func (m *mockStore) ExecuteBuy(ctx context.Context, userID uuid.UUID, symbol string, shares int64, price float64) error {
	user, ok := m.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	total := price * float64(shares)
	if total > user.Cash {
		return domain.ErrInsufficientFunds
	}
	user.Cash -= total
	m.append(userID, symbol, shares, price, domain.ActionBuy)
	return nil
}

func (m *mockStore) ExecuteSell(ctx context.Context, userID uuid.UUID, symbol string, shares int64, price float64) error {
	user, ok := m.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	held := m.held(userID, symbol)
	if held <= 0 || held < shares {
		return domain.ErrInsufficientHoldings
	}
	user.Cash += price * float64(shares)
	m.append(userID, symbol, -shares, price, domain.ActionSell)
	return nil
}

func (m *mockStore) GetHoldings(ctx context.Context, userID uuid.UUID) ([]domain.Holding, error) {
	totals := make(map[string]int64)
	for _, row := range m.rows {
		if row.UserID == userID {
			totals[row.Symbol] += row.Shares
		}
	}
	var holdings []domain.Holding
	for symbol, shares := range totals {
		if shares > 0 {
			holdings = append(holdings, domain.Holding{Symbol: symbol, Shares: shares})
		}
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Symbol < holdings[j].Symbol })
	return holdings, nil
}

func (m *mockStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for _, row := range m.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

// stubQuotes resolves symbols from a fixed price table
type stubQuotes struct {
	prices map[string]float64
	fail   map[string]bool
}

func (s *stubQuotes) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	if s.fail[symbol] {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSymbol, symbol)
	}
	price, ok := s.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSymbol, symbol)
	}
	return &domain.Quote{Symbol: symbol, Name: symbol + " Inc.", Price: price}, nil
}

func newTestUser(t *testing.T, store *mockStore, cash float64) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:       uuid.New(),
		Username: "alice",
		Cash:     cash,
	}
	require.NoError(t, store.Create(context.Background(), user))
	return user
}

func TestBuyDebitsCashAndRecordsTransaction(t *testing.T) {
	store := newMockStore()
	quotes := &stubQuotes{prices: map[string]float64{"AAPL": 150}}
	broker := NewBrokerService(store, store, quotes)
	user := newTestUser(t, store, 10000)

	err := broker.Buy(context.Background(), user.ID, "aapl", 10)
	require.NoError(t, err)

	assert.Equal(t, 8500.0, store.users[user.ID].Cash)
	require.Len(t, store.rows, 1)
	row := store.rows[0]
	assert.Equal(t, "AAPL", row.Symbol)
	assert.Equal(t, int64(10), row.Shares)
	assert.Equal(t, 150.0, row.SharePrice)
	assert.Equal(t, domain.ActionBuy, row.ActionType)
}

func TestBuyInsufficientFundsLeavesStateUntouched(t *testing.T) {
	store := newMockStore()
	quotes := &stubQuotes{prices: map[string]float64{"AAPL": 150}}
	broker := NewBrokerService(store, store, quotes)
	user := newTestUser(t, store, 100)

	err := broker.Buy(context.Background(), user.ID, "AAPL", 10)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, 100.0, store.users[user.ID].Cash)
	assert.Empty(t, store.rows)
}

func TestBuyUnknownSymbol(t *testing.T) {
	store := newMockStore()
	quotes := &stubQuotes{prices: map[string]float64{}}
	broker := NewBrokerService(store, store, quotes)
	user := newTestUser(t, store, 10000)

	err := broker.Buy(context.Background(), user.ID, "NOPE", 1)
	assert.ErrorIs(t, err, domain.ErrUnknownSymbol)
	assert.Empty(t, store.rows)
}

func TestBuyRejectsNonPositiveShares(t *testing.T) {
	store := newMockStore()
	quotes := &stubQuotes{prices: map[string]float64{"AAPL": 150}}
	broker := NewBrokerService(store, store, quotes)
	user := newTestUser(t, store, 10000)

	for _, shares := range []int64{0, -5} {
		err := broker.Buy(context.Background(), user.ID, "AAPL", shares)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, store.rows)
}

func TestSellCreditsCashAndRecordsNegativeShares(t *testing.T) {
	store := newMockStore()
	quotes := &stubQuotes{prices: map[string]float64{"AAPL": 150}}
	broker := NewBrokerService(store, store, quotes)
	user := newTestUser(t, store, 10000)

	require.NoError(t, broker.Buy(context.Background(), user.ID, "AAPL", 10))
	assert.Equal(t, 8500.0, store.users[user.ID].Cash)

	// Price moves before the sale
	quotes.prices["AAPL"] = 160

	err := broker.Sell(context.Background(), user.ID, "AAPL", 5)
	require.NoError(t, err)

	assert.Equal(t, 9300.0, store.users[user.ID].Cash)
	require.Len(t, store.rows, 2)
	row := store.rows[1]
	assert.Equal(t, int64(-5), row.Shares)
	assert.Equal(t, 160.0, row.SharePrice)
	assert.Equal(t, domain.ActionSell, row.ActionType)

	holdings, err := store.GetHoldings(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, domain.Holding{Symbol: "AAPL", Shares: 5}, holdings[0])
}

func TestSellMoreThanHeldIsRejected(t *testing.T) {
	store := newMockStore()
	quotes := &stubQuotes{prices: map[string]float64{"AAPL": 150}}
	broker := NewBrokerService(store, store, quotes)
	user := newTestUser(t, store, 10000)

	require.NoError(t, broker.Buy(context.Background(), user.ID, "AAPL", 3))
	cashBefore := store.users[user.ID].Cash

	err := broker.Sell(context.Background(), user.ID, "AAPL", 4)
	assert.ErrorIs(t, err, domain.ErrInsufficientHoldings)
	assert.Equal(t, cashBefore, store.users[user.ID].Cash)
	assert.Len(t, store.rows, 1)

	holdings, _ := store.GetHoldings(context.Background(), user.ID)
	assert.Equal(t, int64(3), holdings[0].Shares)
}

func TestSellSymbolNotHeld(t *testing.T) {
	store := newMockStore()
	quotes := &stubQuotes{prices: map[string]float64{"GOOG": 100}}
	broker := NewBrokerService(store, store, quotes)
	user := newTestUser(t, store, 10000)

	err := broker.Sell(context.Background(), user.ID, "GOOG", 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientHoldings)
}

func TestSellRejectsNonPositiveShares(t *testing.T) {
	store := newMockStore()
	quotes := &stubQuotes{prices: map[string]float64{"AAPL": 150}}
	broker := NewBrokerService(store, store, quotes)
	user := newTestUser(t, store, 10000)

	err := broker.Sell(context.Background(), user.ID, "AAPL", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQuoteNormalizesSymbol(t *testing.T) {
	store := newMockStore()
	quotes := &stubQuotes{prices: map[string]float64{"AAPL": 150}}
	broker := NewBrokerService(store, store, quotes)

	quote, err := broker.Quote(context.Background(), "  aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, 150.0, quote.Price)

	_, err = broker.Quote(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPortfolioValuesHoldingsAtCurrentPrices(t *testing.T) {
	store := newMockStore()
	quotes := &stubQuotes{prices: map[string]float64{"AAPL": 150, "GOOG": 100}}
	broker := NewBrokerService(store, store, quotes)
	user := newTestUser(t, store, 10000)

	require.NoError(t, broker.Buy(context.Background(), user.ID, "AAPL", 10)) // -1500
	require.NoError(t, broker.Buy(context.Background(), user.ID, "GOOG", 2)) // -200

	quotes.prices["AAPL"] = 160

	portfolio, err := broker.Portfolio(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 8300.0, portfolio.Cash)
	require.Len(t, portfolio.Positions, 2)
	assert.Equal(t, "AAPL", portfolio.Positions[0].Symbol)
	assert.Equal(t, 1600.0, portfolio.Positions[0].Value)
	assert.Equal(t, "GOOG", portfolio.Positions[1].Symbol)
	assert.Equal(t, 200.0, portfolio.Positions[1].Value)
	assert.Equal(t, 8300.0+1600.0+200.0, portfolio.GrandTotal)
}

func TestPortfolioQuoteFailureMarksRowNotRequest(t *testing.T) {
	store := newMockStore()
	quotes := &stubQuotes{
		prices: map[string]float64{"AAPL": 150, "GOOG": 100},
		fail:   map[string]bool{"GOOG": true},
	}
	broker := NewBrokerService(store, store, quotes)
	user := newTestUser(t, store, 10000)

	require.NoError(t, broker.Buy(context.Background(), user.ID, "AAPL", 10))
	require.NoError(t, broker.Buy(context.Background(), user.ID, "GOOG", 2))

	portfolio, err := broker.Portfolio(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, portfolio.Positions, 2)

	goog := portfolio.Positions[1]
	assert.True(t, goog.PriceUnavailable)
	assert.Equal(t, int64(2), goog.Shares)
	assert.Zero(t, goog.Value)

	// Grand total counts cash and the priced rows only
	assert.Equal(t, portfolio.Cash+1500.0, portfolio.GrandTotal)
}

func TestHistoryIsOrderedOldestFirst(t *testing.T) {
	store := newMockStore()
	quotes := &stubQuotes{prices: map[string]float64{"AAPL": 150}}
	broker := NewBrokerService(store, store, quotes)
	user := newTestUser(t, store, 10000)

	require.NoError(t, broker.Buy(context.Background(), user.ID, "AAPL", 10))
	require.NoError(t, broker.Sell(context.Background(), user.ID, "AAPL", 5))

	history, err := broker.History(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.ActionBuy, history[0].ActionType)
	assert.Equal(t, domain.ActionSell, history[1].ActionType)
	assert.True(t, history[0].TransactedAt.Before(history[1].TransactedAt))
}
