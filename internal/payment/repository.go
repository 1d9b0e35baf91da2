package payment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"compustore-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	CreateSession(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, sessionID string) (*Session, error)
	GetPendingByFingerprint(ctx context.Context, fingerprint string) (*Session, error)
	MarkCompleted(ctx context.Context, sessionID, evidencePath string, at time.Time) error
	MarkFailed(ctx context.Context, sessionID string) error
	DeleteStale(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const sessionColumns = `
	session_id, fingerprint, bill_number, amount, currency, reference,
	order_id, customer_id, status, created_at, expires_at,
	completed_at, evidence_path, evidence_uploaded_at
`

func (r *repository) CreateSession(ctx context.Context, s *Session) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateSession"),
		zap.String("session_id", s.SessionID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payment_sessions (
			session_id, fingerprint, bill_number, amount, currency, reference,
			order_id, customer_id, status, created_at, expires_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		s.SessionID, s.Fingerprint, s.BillNumber, s.Amount, s.Currency, s.Reference,
		s.OrderID, s.CustomerID, s.Status, s.CreatedAt, s.ExpiresAt,
	)
	if err != nil {
		log.Error("failed to insert payment session", zap.Error(err))
		return err
	}

	// Back-link the order so the lifecycle controller can find its session.
	if s.OrderID != nil {
		if _, err := tx.ExecContext(ctx, `
			UPDATE orders SET payment_session_id = $1 WHERE id = $2
		`, s.SessionID, *s.OrderID); err != nil {
			log.Error("failed to back-link order", zap.Int64("order_id", *s.OrderID), zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	committed = true
	return nil
}

func (r *repository) GetByID(ctx context.Context, sessionID string) (*Session, error) {
	var s Session
	err := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM payment_sessions
		WHERE session_id = $1
	`, sessionID).Scan(
		&s.SessionID, &s.Fingerprint, &s.BillNumber, &s.Amount, &s.Currency, &s.Reference,
		&s.OrderID, &s.CustomerID, &s.Status, &s.CreatedAt, &s.ExpiresAt,
		&s.CompletedAt, &s.EvidencePath, &s.EvidenceUploadedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) GetPendingByFingerprint(ctx context.Context, fingerprint string) (*Session, error) {
	var s Session
	err := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM payment_sessions
		WHERE fingerprint = $1 AND status = 'pending'
	`, fingerprint).Scan(
		&s.SessionID, &s.Fingerprint, &s.BillNumber, &s.Amount, &s.Currency, &s.Reference,
		&s.OrderID, &s.CustomerID, &s.Status, &s.CreatedAt, &s.ExpiresAt,
		&s.CompletedAt, &s.EvidencePath, &s.EvidenceUploadedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) MarkCompleted(ctx context.Context, sessionID, evidencePath string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payment_sessions
		SET status = 'completed', completed_at = $1,
		    evidence_path = $2, evidence_uploaded_at = $1
		WHERE session_id = $3 AND status = 'pending'
	`, at, evidencePath, sessionID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrSessionClosed
	}
	return nil
}

func (r *repository) MarkFailed(ctx context.Context, sessionID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payment_sessions
		SET status = 'failed'
		WHERE session_id = $1 AND status = 'pending'
	`, sessionID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrSessionClosed
	}
	return nil
}

func (r *repository) DeleteStale(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM payment_sessions
		WHERE status IN ('pending', 'failed') AND expires_at < $1
	`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
