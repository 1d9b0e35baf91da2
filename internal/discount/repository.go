package discount

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrRuleNotFound   = errors.New("volume discount rule not found")
	ErrRuleReferenced = errors.New("volume discount rule is referenced by orders")
)

type Repository interface {
	Create(ctx context.Context, r *Rule) error
	ListActive(ctx context.Context) ([]Rule, error)
	GetByID(ctx context.Context, id int64) (*Rule, error)
	Deactivate(ctx context.Context, id int64) error

	// UpdatePercentage refuses to touch rules already referenced by an order.
	UpdatePercentage(ctx context.Context, id int64, pct float64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rule *Rule) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO volume_discount_rules (minimum_amount, discount_percentage, active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, rule.MinimumAmount, rule.Percentage, rule.Active).Scan(&rule.ID, &rule.CreatedAt)
}

func (r *repository) ListActive(ctx context.Context) ([]Rule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, minimum_amount, discount_percentage, active, created_at
		FROM volume_discount_rules
		WHERE active = TRUE
		ORDER BY minimum_amount
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []Rule
	for rows.Next() {
		var rule Rule
		if err := rows.Scan(&rule.ID, &rule.MinimumAmount, &rule.Percentage, &rule.Active, &rule.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Rule, error) {
	var rule Rule
	err := r.db.QueryRowContext(ctx, `
		SELECT id, minimum_amount, discount_percentage, active, created_at
		FROM volume_discount_rules
		WHERE id = $1
	`, id).Scan(&rule.ID, &rule.MinimumAmount, &rule.Percentage, &rule.Active, &rule.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE volume_discount_rules SET active = FALSE WHERE id = $1
	`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func (r *repository) UpdatePercentage(ctx context.Context, id int64, pct float64) error {
	var referenced bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM orders WHERE volume_discount_rule_id = $1)
	`, id).Scan(&referenced)
	if err != nil {
		return err
	}
	if referenced {
		return ErrRuleReferenced
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE volume_discount_rules SET discount_percentage = $1 WHERE id = $2
	`, pct, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrRuleNotFound
	}
	return nil
}
