package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stocksim/internal/domain"
)

// LedgerRepositoryImpl implements the LedgerRepository interface
type LedgerRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) domain.LedgerRepository {
	return &LedgerRepositoryImpl{db: db}
}

// ExecuteBuy debits the purchase cost and appends a buy row in one
// transaction. The user row is locked for the duration so two concurrent
// trades for the same user cannot both pass the balance check.
func (r *LedgerRepositoryImpl) ExecuteBuy(ctx context.Context, userID uuid.UUID, symbol string, shares int64, price float64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var cash float64
	err = tx.QueryRow(ctx,
		"SELECT cash FROM users WHERE id = $1 FOR UPDATE",
		userID).Scan(&cash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to lock user row: %w", err)
	}

	total := price * float64(shares)
	if total > cash {
		return domain.ErrInsufficientFunds
	}

	_, err = tx.Exec(ctx,
		"UPDATE users SET cash = cash - $1, updated_at = NOW() WHERE id = $2",
		total, userID)
	if err != nil {
		return fmt.Errorf("failed to debit cash: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO history (id, user_id, symbol, shares, share_price, transacted_at, action_type)
		VALUES ($1, $2, $3, $4, $5, NOW(), $6)
	`, uuid.New(), userID, symbol, shares, price, domain.ActionBuy)
	if err != nil {
		return fmt.Errorf("failed to append buy to ledger: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ExecuteSell credits the sale proceeds and appends a sell row with negative
// shares in one transaction. Holdings are recomputed under the user row lock,
// so the aggregate share count for a symbol can never go negative.
func (r *LedgerRepositoryImpl) ExecuteSell(ctx context.Context, userID uuid.UUID, symbol string, shares int64, price float64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var cash float64
	err = tx.QueryRow(ctx,
		"SELECT cash FROM users WHERE id = $1 FOR UPDATE",
		userID).Scan(&cash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to lock user row: %w", err)
	}

	var held int64
	err = tx.QueryRow(ctx,
		"SELECT COALESCE(SUM(shares), 0) FROM history WHERE user_id = $1 AND symbol = $2",
		userID, symbol).Scan(&held)
	if err != nil {
		return fmt.Errorf("failed to compute holdings: %w", err)
	}

	if held <= 0 || held < shares {
		return domain.ErrInsufficientHoldings
	}

	total := price * float64(shares)
	_, err = tx.Exec(ctx,
		"UPDATE users SET cash = cash + $1, updated_at = NOW() WHERE id = $2",
		total, userID)
	if err != nil {
		return fmt.Errorf("failed to credit cash: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO history (id, user_id, symbol, shares, share_price, transacted_at, action_type)
		VALUES ($1, $2, $3, $4, $5, NOW(), $6)
	`, uuid.New(), userID, symbol, -shares, price, domain.ActionSell)
	if err != nil {
		return fmt.Errorf("failed to append sell to ledger: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetHoldings retrieves every symbol the user currently holds
func (r *LedgerRepositoryImpl) GetHoldings(ctx context.Context, userID uuid.UUID) ([]domain.Holding, error) {
	query := `
		SELECT symbol, SUM(shares) AS total_shares
		FROM history
		WHERE user_id = $1
		GROUP BY symbol
		HAVING SUM(shares) > 0
		ORDER BY symbol ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []domain.Holding
	for rows.Next() {
		var h domain.Holding
		if err := rows.Scan(&h.Symbol, &h.Shares); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}

// ListByUser retrieves the user's transaction log ordered by time ascending
func (r *LedgerRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, symbol, shares, share_price, transacted_at, action_type
		FROM history
		WHERE user_id = $1
		ORDER BY transacted_at ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		t := &domain.Transaction{}
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Symbol,
			&t.Shares,
			&t.SharePrice,
			&t.TransactedAt,
			&t.ActionType,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}
