package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mfalcone/stockx/internal/domain/entity"
	"github.com/mfalcone/stockx/internal/domain/repository"
)

// LedgerRepository stores the append-only transaction log in the
// transactions table and the cached cash balance on the users row.
// WithUser serializes per-user mutations with a row-level lock on the
// user: the appended entry and the cash update commit or roll back as one
// unit, and concurrent mutations for the same user queue on the lock.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

func (r *LedgerRepository) WithUser(ctx context.Context, userID string, fn func(tx repository.LedgerTx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cash decimal.Decimal
	row := tx.QueryRow(ctx, `SELECT cash FROM users WHERE id = $1 FOR UPDATE`, userID)
	if err := row.Scan(&cash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}

	lt := &ledgerTx{tx: tx, userID: userID, cash: cash}
	if err := fn(lt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *LedgerRepository) EntriesFor(ctx context.Context, userID, symbol string) ([]entity.LedgerEntry, error) {
	query := `
		SELECT id, user_id, type, symbol, shares, price, total, transacted
		FROM transactions
		WHERE user_id = $1`
	args := []any{userID}
	if symbol != "" {
		query += ` AND symbol = $2`
		args = append(args, symbol)
	}
	query += ` ORDER BY transacted, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []entity.LedgerEntry
	for rows.Next() {
		var (
			e      entity.LedgerEntry
			sym    *string
			shares *int64
			price  decimal.NullDecimal
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Type, &sym, &shares, &price, &e.Total, &e.Transacted); err != nil {
			return nil, err
		}
		if sym != nil {
			e.Symbol = *sym
		}
		if shares != nil {
			e.Shares = *shares
		}
		if price.Valid {
			e.Price = price.Decimal
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *LedgerRepository) Positions(ctx context.Context, userID string) ([]entity.Holding, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT symbol, SUM(shares)
		FROM transactions
		WHERE user_id = $1 AND symbol IS NOT NULL
		GROUP BY symbol
		HAVING SUM(shares) > 0
		ORDER BY symbol
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []entity.Holding
	for rows.Next() {
		var h entity.Holding
		if err := rows.Scan(&h.Symbol, &h.Shares); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

func (r *LedgerRepository) CashOf(ctx context.Context, userID string) (decimal.Decimal, error) {
	var cash decimal.Decimal
	row := r.pool.QueryRow(ctx, `SELECT cash FROM users WHERE id = $1`, userID)
	if err := row.Scan(&cash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, repository.ErrNotFound
		}
		return decimal.Zero, err
	}
	return cash, nil
}

// ledgerTx operates inside the row-locked transaction opened by WithUser.
type ledgerTx struct {
	tx     pgx.Tx
	userID string
	cash   decimal.Decimal
}

func (t *ledgerTx) Cash(ctx context.Context) (decimal.Decimal, error) {
	return t.cash, nil
}

func (t *ledgerTx) SharesOf(ctx context.Context, symbol string) (int64, error) {
	var shares int64
	row := t.tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(shares), 0)
		FROM transactions
		WHERE user_id = $1 AND symbol = $2
	`, t.userID, symbol)
	if err := row.Scan(&shares); err != nil {
		return 0, err
	}
	return shares, nil
}

func (t *ledgerTx) Append(ctx context.Context, e *entity.LedgerEntry) error {
	var (
		symbol *string
		shares *int64
		price  *decimal.Decimal
	)
	if e.IsTrade() {
		symbol = &e.Symbol
		shares = &e.Shares
		price = &e.Price
	}
	row := t.tx.QueryRow(ctx, `
		INSERT INTO transactions (user_id, type, symbol, shares, price, total, transacted)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, e.UserID, string(e.Type), symbol, shares, price, e.Total, e.Transacted)
	return row.Scan(&e.ID)
}

func (t *ledgerTx) AdjustCash(ctx context.Context, delta decimal.Decimal) (decimal.Decimal, error) {
	row := t.tx.QueryRow(ctx, `
		UPDATE users
		SET cash = cash + $1, updated_at = now()
		WHERE id = $2
		RETURNING cash
	`, delta, t.userID)
	if err := row.Scan(&t.cash); err != nil {
		return decimal.Zero, err
	}
	return t.cash, nil
}

var (
	_ repository.LedgerRepository = (*LedgerRepository)(nil)
	_ repository.LedgerTx         = (*ledgerTx)(nil)
)
