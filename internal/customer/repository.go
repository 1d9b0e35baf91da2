package customer

import (
	"context"
	"database/sql"
	"errors"
)

var ErrCustomerNotFound = errors.New("customer not found")

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	GetByID(ctx context.Context, id uint) (*Customer, error)
	SoftDelete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]Customer, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Customer) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO customers (first_name, last_name, email, password_hash, otp_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, c.FirstName, c.LastName, c.Email, c.PasswordHash, c.OTPEnabled).Scan(&c.ID, &c.CreatedAt)
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	var c Customer
	err := r.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash, otp_enabled, deleted_at, created_at
		FROM customers
		WHERE email = $1 AND deleted_at IS NULL
	`, email).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PasswordHash,
		&c.OTPEnabled, &c.DeletedAt, &c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Customer, error) {
	var c Customer
	err := r.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash, otp_enabled, deleted_at, created_at
		FROM customers
		WHERE id = $1
	`, id).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PasswordHash,
		&c.OTPEnabled, &c.DeletedAt, &c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) SoftDelete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash, otp_enabled, deleted_at, created_at
		FROM customers
		WHERE deleted_at IS NULL
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(
			&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PasswordHash,
			&c.OTPEnabled, &c.DeletedAt, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}
