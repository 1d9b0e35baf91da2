package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"compustore-be/internal/discount"
	"compustore-be/internal/logger"
	"compustore-be/internal/payment"

	"go.uber.org/zap"
)

// Notifier delivers lifecycle messages to customers. Delivery failures are
// logged and never fail the triggering operation.
type Notifier interface {
	Emit(ctx context.Context, customerID uint, message, kind string, relatedID *int64) error
}

type Service interface {
	PlaceOrder(ctx context.Context, customerID uint, lines []CartLine, method string, externalReference *string) (*Order, error)
	GetOrder(ctx context.Context, orderID int64) (*Order, error)
	ListOrders(ctx context.Context, filter *Filter, sortField, sortDir string, limit, page int) ([]*Order, error)

	CancelOrder(ctx context.Context, orderID int64, reason string) (*Order, error)
	StaffCancelOrder(ctx context.Context, orderID int64, reason string) (*Order, error)
	CancelItems(ctx context.Context, orderID int64, cancels map[int64]int, reason string) (*CancelLinesResult, error)

	Approve(ctx context.Context, orderID int64, staffID uint) error
	Reject(ctx context.Context, orderID int64, staffID uint) error

	CompleteFromSession(ctx context.Context, session *payment.Session) error
	ListPendingQROrders(ctx context.Context, olderThanSeconds int) ([]*Order, error)
}

type service struct {
	repo            Repository
	rules           discount.Repository
	notifier        Notifier
	recomputeVolume bool
}

// NewService wires the order lifecycle. recomputeVolume controls whether
// partial cancellation re-runs the volume tier selection on the surviving
// lines instead of a straight subtraction.
func NewService(repo Repository, rules discount.Repository, notifier Notifier, recomputeVolume bool) Service {
	return &service{
		repo:            repo,
		rules:           rules,
		notifier:        notifier,
		recomputeVolume: recomputeVolume,
	}
}

func (s *service) PlaceOrder(
	ctx context.Context,
	customerID uint,
	lines []CartLine,
	method string,
	externalReference *string,
) (*Order, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.Uint("customer_id", customerID),
	)

	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		log.Error("failed to load discount rules", zap.Error(err))
		return nil, err
	}

	o, err := s.repo.PlaceOrder(ctx, customerID, lines, method, externalReference, rules)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, customerID,
		fmt.Sprintf("Order #%d placed, awaiting payment.", o.ID),
		"order_placed", &o.ID)

	return o, nil
}

func (s *service) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	return s.repo.GetDetail(ctx, orderID)
}

func (s *service) ListOrders(
	ctx context.Context,
	filter *Filter,
	sortField, sortDir string,
	limit, page int,
) ([]*Order, error) {
	return s.repo.List(ctx, filter, sortField, sortDir, limit, page)
}

func (s *service) CancelOrder(ctx context.Context, orderID int64, reason string) (*Order, error) {
	return s.cancel(ctx, orderID, reason, false)
}

// StaffCancelOrder additionally permits cancelling a completed order,
// restoring its stock.
func (s *service) StaffCancelOrder(ctx context.Context, orderID int64, reason string) (*Order, error) {
	return s.cancel(ctx, orderID, reason, true)
}

func (s *service) cancel(ctx context.Context, orderID int64, reason string, allowCompleted bool) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CancelOrder"),
		zap.Int64("order_id", orderID),
	)

	o, err := s.repo.Cancel(ctx, orderID, allowCompleted)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Order #%d has been cancelled.", o.ID)
	if reason != "" {
		msg = fmt.Sprintf("Order #%d has been cancelled: %s", o.ID, reason)
	}
	s.notify(ctx, o.CustomerID, msg, "order_cancelled", &o.ID)

	log.Info("order cancelled")
	return o, nil
}

func (s *service) CancelItems(ctx context.Context, orderID int64, cancels map[int64]int, reason string) (*CancelLinesResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CancelItems"),
		zap.Int64("order_id", orderID),
	)

	o, err := s.repo.GetDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var rules []discount.Rule
	if s.recomputeVolume {
		rules, err = s.rules.ListActive(ctx)
		if err != nil {
			log.Error("failed to load discount rules", zap.Error(err))
			return nil, err
		}
	}

	result, err := s.repo.CancelLines(ctx, orderID, cancels, s.recomputeVolume, rules)
	if err != nil {
		return nil, err
	}

	for _, item := range result.Items {
		s.notify(ctx, o.CustomerID,
			fmt.Sprintf("%d x %s removed from order #%d.", item.Quantity, item.ProductName, orderID),
			"order_item_cancelled", &orderID)
	}
	if result.OrderDeleted {
		s.notify(ctx, o.CustomerID,
			fmt.Sprintf("Order #%d was cancelled in full.", orderID),
			"order_cancelled", &orderID)
	}

	log.Info("items cancelled",
		zap.Int("count", len(result.Items)),
		zap.Bool("order_deleted", result.OrderDeleted),
	)
	return result, nil
}

func (s *service) Approve(ctx context.Context, orderID int64, staffID uint) error {
	return s.repo.SetApproval(ctx, orderID, ApprovalApproved, staffID)
}

func (s *service) Reject(ctx context.Context, orderID int64, staffID uint) error {
	return s.repo.SetApproval(ctx, orderID, ApprovalRejected, staffID)
}

// CompleteFromSession flips the linked order to COMPLETED after a payment
// session finished. Stock was reserved at placement and is not touched
// again here. Calling it for an already completed order is a no-op.
func (s *service) CompleteFromSession(ctx context.Context, session *payment.Session) error {
	if session.OrderID == nil {
		return nil
	}
	orderID := *session.OrderID

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CompleteFromSession"),
		zap.Int64("order_id", orderID),
		zap.String("session_id", session.SessionID),
	)

	err := s.repo.MarkCompleted(ctx, orderID)
	var illegal *IllegalTransitionError
	if errors.As(err, &illegal) && illegal.From == StatusCompleted {
		log.Debug("order already completed")
		return nil
	}
	if err != nil {
		return err
	}

	o, err := s.repo.GetDetail(ctx, orderID)
	if err != nil {
		log.Warn("completed order fetch failed", zap.Error(err))
		return nil
	}

	s.notify(ctx, o.CustomerID,
		fmt.Sprintf("Payment received for order #%d.", o.ID),
		"payment_received", &o.ID)

	log.Info("order completed from payment session")
	return nil
}

// ListPendingQROrders returns pending QR orders older than the given number
// of seconds, for the background verifier.
func (s *service) ListPendingQROrders(ctx context.Context, olderThanSeconds int) ([]*Order, error) {
	cutoff := time.Now().Add(-time.Duration(olderThanSeconds) * time.Second)
	return s.repo.ListPendingQR(ctx, cutoff)
}

func (s *service) notify(ctx context.Context, customerID uint, message, kind string, relatedID *int64) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Emit(ctx, customerID, message, kind, relatedID); err != nil {
		logger.FromCtx(ctx).Warn("notification emit failed",
			zap.Uint("customer_id", customerID),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
}
