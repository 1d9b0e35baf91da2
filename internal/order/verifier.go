package order

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"compustore-be/internal/logger"
	"compustore-be/internal/payment"

	"go.uber.org/zap"
)

// pendingGracePeriod keeps the verifier off freshly placed orders so the
// customer has a moment to scan and pay before anything looks at the session.
const pendingGracePeriod = 60 // seconds

// Verifier is the single background task that sweeps pending QR orders and
// asks the payment status checker about their sessions. It is idempotent:
// an order that stays pending is simply seen again next tick.
type Verifier struct {
	orders   Service
	sessions payment.Registry
	checker  payment.StatusChecker
	interval time.Duration

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewVerifier(orders Service, sessions payment.Registry, checker payment.StatusChecker, interval time.Duration) *Verifier {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Verifier{
		orders:   orders,
		sessions: sessions,
		checker:  checker,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the tick loop until Stop is called or ctx is cancelled.
// It blocks; run it on its own goroutine.
func (v *Verifier) Start(ctx context.Context) {
	v.started.Store(true)
	defer close(v.done)

	log := logger.L().With(zap.String("component", "payment_verifier"))
	log.Info("verifier started", zap.Duration("interval", v.interval))

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("verifier stopped", zap.String("reason", "context cancelled"))
			return
		case <-v.stop:
			log.Info("verifier stopped")
			return
		case <-ticker.C:
			v.tick(ctx, log)
		}
	}
}

// Stop requests shutdown and waits for a running loop to exit. Without a
// prior Start it only arms the stop flag and returns.
func (v *Verifier) Stop() {
	v.stopOnce.Do(func() { close(v.stop) })
	if v.started.Load() {
		<-v.done
	}
}

// tick never returns an error: a failure on one order is logged and the
// sweep moves on.
func (v *Verifier) tick(ctx context.Context, log *zap.Logger) {
	orders, err := v.orders.ListPendingQROrders(ctx, pendingGracePeriod)
	if err != nil {
		log.Error("failed to list pending orders", zap.Error(err))
		return
	}
	if len(orders) == 0 {
		return
	}

	log.Debug("verifier tick", zap.Int("pending", len(orders)))

	for _, o := range orders {
		if o.PaymentSessionID == nil {
			// Manual mode: no session to ask, leave it for staff.
			continue
		}
		v.checkOrder(ctx, log, o)
	}
}

func (v *Verifier) checkOrder(ctx context.Context, log *zap.Logger, o *Order) {
	session, err := v.sessions.GetSession(ctx, *o.PaymentSessionID)
	if err != nil {
		log.Warn("session lookup failed",
			zap.Int64("order_id", o.ID),
			zap.String("session_id", *o.PaymentSessionID),
			zap.Error(err),
		)
		return
	}

	status := session.Status
	if !session.Terminal() {
		status, err = v.checker.Check(ctx, session)
		if err != nil {
			log.Warn("status check failed",
				zap.Int64("order_id", o.ID),
				zap.Error(err),
			)
			return
		}

		if status == payment.StatusFailed {
			if err := v.sessions.FailSession(ctx, session.SessionID); err != nil {
				log.Warn("failed to mark session failed",
					zap.Int64("order_id", o.ID),
					zap.String("session_id", session.SessionID),
					zap.Error(err),
				)
			}
			return
		}
	}

	if status != payment.StatusCompleted {
		return
	}

	if err := v.orders.CompleteFromSession(ctx, session); err != nil {
		log.Error("failed to complete order",
			zap.Int64("order_id", o.ID),
			zap.Error(err),
		)
	}
}
