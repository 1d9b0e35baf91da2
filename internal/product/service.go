package product

import (
	"context"
	"fmt"

	"compustore-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Get(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, includeHidden bool) ([]Product, error)
	Archive(ctx context.Context, id int64) error
	Unarchive(ctx context.Context, id int64) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error

	// ApplyPromotion rewrites unit_price from the cost basis:
	//   unit_price = cost_basis * (1 - pct/100)
	// A product without a cost basis uses its current unit price as the
	// reference and records it as cost basis first.
	ApplyPromotion(ctx context.Context, id int64, pct float64) (*Product, error)

	// ClearPromotion restores unit_price to the cost basis reference.
	ClearPromotion(ctx context.Context, id int64) (*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, p *Product) error {
	if p.UnitPrice < 0 {
		return fmt.Errorf("unit price must not be negative")
	}
	if p.StockOnHand < 0 {
		return fmt.Errorf("stock must not be negative")
	}
	return s.repo.Create(ctx, p)
}

func (s *service) Update(ctx context.Context, p *Product) error {
	if p.UnitPrice < 0 {
		return fmt.Errorf("unit price must not be negative")
	}
	return s.repo.Update(ctx, p)
}

func (s *service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, includeHidden bool) ([]Product, error) {
	return s.repo.List(ctx, includeHidden)
}

func (s *service) Archive(ctx context.Context, id int64) error {
	return s.repo.SetArchived(ctx, id, true)
}

func (s *service) Unarchive(ctx context.Context, id int64) error {
	return s.repo.SetArchived(ctx, id, false)
}

func (s *service) SoftDelete(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *service) Restore(ctx context.Context, id int64) error {
	return s.repo.Restore(ctx, id)
}

func (s *service) ApplyPromotion(ctx context.Context, id int64, pct float64) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ApplyPromotion"),
		zap.Int64("product_id", id),
		zap.Float64("pct", pct),
	)

	if pct < 0 || pct >= 100 {
		return nil, fmt.Errorf("promotion percentage must be in [0, 100)")
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Available() {
		return nil, &UnavailableError{ProductID: id}
	}

	reference := p.UnitPrice
	if p.CostBasis != nil {
		reference = *p.CostBasis
	} else {
		// Legacy product: lock in the current price as the reference.
		p.CostBasis = &reference
		if err := s.repo.Update(ctx, p); err != nil {
			return nil, err
		}
	}

	p.UnitPrice = reference * (1 - pct/100)
	if err := s.repo.UpdatePricing(ctx, id, p.UnitPrice); err != nil {
		log.Error("failed to write promotional price", zap.Error(err))
		return nil, err
	}

	log.Info("promotion applied", zap.Float64("unit_price", p.UnitPrice))
	return p, nil
}

func (s *service) ClearPromotion(ctx context.Context, id int64) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.CostBasis == nil {
		return nil, ErrNoCostBasis
	}

	p.UnitPrice = *p.CostBasis
	if err := s.repo.UpdatePricing(ctx, id, p.UnitPrice); err != nil {
		return nil, err
	}

	return p, nil
}
