package product

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, includeHidden bool) ([]Product, error)
	SetArchived(ctx context.Context, id int64, archived bool) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	UpdatePricing(ctx context.Context, id int64, unitPrice float64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id, name, description, category, unit_price, cost_basis,
	stock_on_hand, archived, preorder, deleted_at, created_at, updated_at
`

func (r *repository) Create(ctx context.Context, p *Product) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, category, unit_price, cost_basis, stock_on_hand, preorder)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`,
		p.Name, p.Description, p.Category, p.UnitPrice, p.CostBasis, p.StockOnHand, p.Preorder,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, category = $3, unit_price = $4,
		    cost_basis = $5, preorder = $6, updated_at = NOW()
		WHERE id = $7 AND deleted_at IS NULL
	`,
		p.Name, p.Description, p.Category, p.UnitPrice, p.CostBasis, p.Preorder, p.ID,
	)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.UnitPrice, &p.CostBasis,
		&p.StockOnHand, &p.Archived, &p.Preorder, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, includeHidden bool) ([]Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
	`
	if !includeHidden {
		query += ` WHERE archived = FALSE AND deleted_at IS NULL`
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Category, &p.UnitPrice, &p.CostBasis,
			&p.StockOnHand, &p.Archived, &p.Preorder, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *repository) SetArchived(ctx context.Context, id int64, archived bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET archived = $1, updated_at = NOW() WHERE id = $2
	`, archived, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) Restore(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET deleted_at = NULL, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NOT NULL
	`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) UpdatePricing(ctx context.Context, id int64, unitPrice float64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET unit_price = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`, unitPrice, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
