package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"compustore-be/internal/cart"
	"compustore-be/internal/config"
	"compustore-be/internal/customer"
	"compustore-be/internal/db"
	"compustore-be/internal/discount"
	"compustore-be/internal/inventory"
	"compustore-be/internal/logger"
	"compustore-be/internal/notification"
	"compustore-be/internal/order"
	"compustore-be/internal/payment"
	"compustore-be/internal/product"
	"compustore-be/internal/server"
	"compustore-be/internal/staff"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	sessionSweepInterval      = time.Minute
	notificationSweepInterval = time.Hour
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	ledger := inventory.NewLedger(database)
	discountRepo := discount.NewRepository(database)

	customerRepo := customer.NewRepository(database)
	customerSvc := customer.NewService(customerRepo)

	staffRepo := staff.NewRepository(database)
	staffSvc := staff.NewService(staffRepo)

	cartStore := cart.NewStore(rdb)

	evidenceStore := payment.NewEvidenceStore(cfg.UploadRoot)
	paymentRepo := payment.NewRepository(database)
	paymentRegistry := payment.NewRegistry(paymentRepo, evidenceStore)

	notificationSvc := notification.NewService(notification.NewRepository(database))

	orderRepo := order.NewRepository(database, ledger)
	orderSvc := order.NewService(orderRepo, discountRepo, notificationSvc,
		cfg.RecomputeVolumeDiscountOnPartialCancel)

	verifier := order.NewVerifier(orderSvc, paymentRegistry,
		payment.NewManualChecker(), cfg.VerifierInterval)

	srv := server.New(cfg, productSvc, discountRepo, customerSvc, staffSvc,
		cartStore, orderSvc, paymentRegistry, notificationSvc)

	httpServer := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server listening", zap.String("port", cfg.AppPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		verifier.Start(ctx)
		return nil
	})

	g.Go(func() error {
		runSweeper(ctx, sessionSweepInterval, func(ctx context.Context) {
			if count, err := paymentRegistry.ExpireStale(ctx); err != nil {
				log.Warn("session sweep failed", zap.Error(err))
			} else if count > 0 {
				log.Info("expired payment sessions removed", zap.Int64("count", count))
			}
		})
		return nil
	})

	g.Go(func() error {
		runSweeper(ctx, notificationSweepInterval, func(ctx context.Context) {
			if _, err := notificationSvc.Sweep(ctx); err != nil {
				log.Warn("notification sweep failed", zap.Error(err))
			}
		})
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
	log.Info("server stopped")
}

func runSweeper(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}
