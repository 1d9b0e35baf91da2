package notification

import (
	"context"
	"time"

	"compustore-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Emit(ctx context.Context, customerID uint, message, kind string, relatedID *int64) error
	List(ctx context.Context, customerID uint, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, id int64, customerID uint) error
	MarkAllRead(ctx context.Context, customerID uint) error
	Sweep(ctx context.Context) (int64, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Emit(ctx context.Context, customerID uint, message, kind string, relatedID *int64) error {
	n := &Notification{
		CustomerID: customerID,
		Message:    message,
		Kind:       kind,
		RelatedID:  relatedID,
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		logger.FromCtx(ctx).Error("failed to insert notification",
			zap.String("layer", "service"),
			zap.Uint("customer_id", customerID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) List(ctx context.Context, customerID uint, unreadOnly bool) ([]Notification, error) {
	return s.repo.List(ctx, customerID, unreadOnly)
}

func (s *service) MarkRead(ctx context.Context, id int64, customerID uint) error {
	return s.repo.MarkRead(ctx, id, customerID)
}

func (s *service) MarkAllRead(ctx context.Context, customerID uint) error {
	return s.repo.MarkAllRead(ctx, customerID)
}

// Sweep drops notifications past the retention window.
func (s *service) Sweep(ctx context.Context) (int64, error) {
	count, err := s.repo.DeleteOlderThan(ctx, s.now().Add(-RetentionWindow))
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.FromCtx(ctx).Info("notifications swept",
			zap.String("layer", "service"),
			zap.Int64("count", count),
		)
	}
	return count, nil
}
