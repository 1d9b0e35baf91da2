package notification

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	Insert(ctx context.Context, n *Notification) error
	List(ctx context.Context, customerID uint, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, id int64, customerID uint) error
	MarkAllRead(ctx context.Context, customerID uint) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, n *Notification) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO notifications (customer_id, message, type, related_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, n.CustomerID, n.Message, n.Kind, n.RelatedID).Scan(&n.ID, &n.CreatedAt)
}

func (r *repository) List(ctx context.Context, customerID uint, unreadOnly bool) ([]Notification, error) {
	query := `
		SELECT id, customer_id, message, type, related_id, read, created_at
		FROM notifications
		WHERE customer_id = $1
	`
	if unreadOnly {
		query += " AND read = FALSE"
	}
	query += " ORDER BY created_at DESC LIMIT $2"

	rows, err := r.db.QueryContext(ctx, query, customerID, ListLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(
			&n.ID, &n.CustomerID, &n.Message, &n.Kind,
			&n.RelatedID, &n.Read, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead is scoped to the owning customer; marking an already read or
// unknown notification changes nothing.
func (r *repository) MarkRead(ctx context.Context, id int64, customerID uint) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND customer_id = $2
	`, id, customerID)
	return err
}

func (r *repository) MarkAllRead(ctx context.Context, customerID uint) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE customer_id = $1 AND read = FALSE
	`, customerID)
	return err
}

func (r *repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM notifications WHERE created_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
