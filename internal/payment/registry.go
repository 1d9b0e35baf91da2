package payment

import (
	"context"
	"io"
	"time"

	"compustore-be/internal/logger"
	"compustore-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionTTL is the hard payment window. expires_at is always created_at
// plus exactly this value.
const SessionTTL = 15 * time.Minute

// Registry owns payment session state. It is the only component allowed to
// create or mutate sessions.
type Registry interface {
	CreateSession(ctx context.Context, amount float64, currency string, orderID *int64, customerID *uint, reference string) (*CreateSessionResult, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	LookupByFingerprint(ctx context.Context, fingerprint string) (*Session, error)
	AttachEvidence(ctx context.Context, sessionID, filename string, src io.Reader, size int64) (*Session, error)
	FailSession(ctx context.Context, sessionID string) error
	ExpireStale(ctx context.Context) (int64, error)
}

type registry struct {
	repo     Repository
	evidence *EvidenceStore
	now      func() time.Time
}

func NewRegistry(repo Repository, evidence *EvidenceStore) Registry {
	return &registry{
		repo:     repo,
		evidence: evidence,
		now:      time.Now,
	}
}

func (r *registry) CreateSession(
	ctx context.Context,
	amount float64,
	currency string,
	orderID *int64,
	customerID *uint,
	reference string,
) (*CreateSessionResult, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateSession"),
		zap.Float64("amount", amount),
		zap.String("currency", currency),
	)

	now := r.now()
	billNumber := utils.GenerateBillNumber()
	payload := BuildQRPayload(billNumber, amount, currency, reference)

	s := &Session{
		SessionID:   uuid.New().String(),
		Fingerprint: Fingerprint(payload),
		BillNumber:  billNumber,
		Amount:      amount,
		Currency:    currency,
		Reference:   reference,
		OrderID:     orderID,
		CustomerID:  customerID,
		Status:      StatusPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(SessionTTL),
	}

	if err := r.repo.CreateSession(ctx, s); err != nil {
		log.Error("failed to persist payment session", zap.Error(err))
		return nil, err
	}

	log.Info("payment session created",
		zap.String("session_id", s.SessionID),
		zap.String("fingerprint", s.Fingerprint),
	)

	return &CreateSessionResult{
		SessionID:   s.SessionID,
		Fingerprint: s.Fingerprint,
		BillNumber:  s.BillNumber,
		QRPayload:   payload,
		ExpiresAt:   s.ExpiresAt,
	}, nil
}

func (r *registry) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	return r.repo.GetByID(ctx, sessionID)
}

// LookupByFingerprint is the recovery path: it only ever returns live
// pending sessions.
func (r *registry) LookupByFingerprint(ctx context.Context, fingerprint string) (*Session, error) {
	s, err := r.repo.GetPendingByFingerprint(ctx, fingerprint)
	if err != nil {
		return nil, err
	}

	if r.now().After(s.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	return s, nil
}

// AttachEvidence validates and stores the upload, then closes the session.
// If the database update fails the file is removed again.
func (r *registry) AttachEvidence(ctx context.Context, sessionID, filename string, src io.Reader, size int64) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AttachEvidence"),
		zap.String("session_id", sessionID),
	)

	s, err := r.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Terminal() {
		return nil, ErrSessionClosed
	}
	if r.now().After(s.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	relPath, err := r.evidence.Save(sessionID, filename, src, size)
	if err != nil {
		return nil, err
	}

	completedAt := r.now()
	if err := r.repo.MarkCompleted(ctx, sessionID, relPath, completedAt); err != nil {
		if rmErr := r.evidence.Remove(relPath); rmErr != nil {
			log.Warn("failed to remove orphaned evidence file",
				zap.String("path", relPath), zap.Error(rmErr))
		}
		return nil, err
	}

	s.Status = StatusCompleted
	s.CompletedAt = &completedAt
	s.EvidencePath = &relPath
	s.EvidenceUploadedAt = &completedAt

	log.Info("evidence attached, session completed", zap.String("path", relPath))
	return s, nil
}

// FailSession marks a pending session failed. The linked order is not
// touched: a failed payment leaves the order open for another attempt.
func (r *registry) FailSession(ctx context.Context, sessionID string) error {
	if err := r.repo.MarkFailed(ctx, sessionID); err != nil {
		return err
	}
	logger.FromCtx(ctx).Info("payment session marked failed",
		zap.String("session_id", sessionID))
	return nil
}

func (r *registry) ExpireStale(ctx context.Context) (int64, error) {
	count, err := r.repo.DeleteStale(ctx, r.now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.FromCtx(ctx).Info("expired stale payment sessions", zap.Int64("count", count))
	}
	return count, nil
}
