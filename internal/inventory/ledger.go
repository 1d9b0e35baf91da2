package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Ledger owns stock_on_hand mutation. Reserve and Restore run on the
// caller's transaction so a failed order placement or cancellation rolls
// everything back together.
type Ledger interface {
	Reserve(ctx context.Context, tx *sql.Tx, productID int64, qty int) error
	Restore(ctx context.Context, tx *sql.Tx, productID int64, qty int) error
	Changes(ctx context.Context, productID int64) ([]Change, error)
}

type ledger struct {
	db *sql.DB
}

func NewLedger(db *sql.DB) Ledger {
	return &ledger{db: db}
}

func (l *ledger) Reserve(ctx context.Context, tx *sql.Tx, productID int64, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("reserve quantity must be positive, got %d", qty)
	}

	// Row lock serializes concurrent reservations on the same product. The
	// first transaction to commit wins; losers see the decremented stock.
	var available int
	err := tx.QueryRowContext(ctx, `
		SELECT stock_on_hand FROM products WHERE id = $1 FOR UPDATE
	`, productID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}

	if available < qty {
		return &InsufficientStockError{
			ProductID: productID,
			Available: available,
			Requested: qty,
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE products SET stock_on_hand = stock_on_hand - $1, updated_at = NOW()
		WHERE id = $2
	`, qty, productID); err != nil {
		return err
	}

	return l.append(ctx, tx, productID, -qty)
}

func (l *ledger) Restore(ctx context.Context, tx *sql.Tx, productID int64, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("restore quantity must be positive, got %d", qty)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE products SET stock_on_hand = stock_on_hand + $1, updated_at = NOW()
		WHERE id = $2
	`, qty, productID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}

	return l.append(ctx, tx, productID, qty)
}

func (l *ledger) append(ctx context.Context, tx *sql.Tx, productID int64, delta int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO inventory_changes (product_id, delta) VALUES ($1, $2)
	`, productID, delta)
	return err
}

func (l *ledger) Changes(ctx context.Context, productID int64) ([]Change, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, product_id, delta, created_at
		FROM inventory_changes
		WHERE product_id = $1
		ORDER BY id
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []Change
	for rows.Next() {
		var c Change
		if err := rows.Scan(&c.ID, &c.ProductID, &c.Delta, &c.CreatedAt); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}

	return changes, rows.Err()
}
