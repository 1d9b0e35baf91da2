package discount

import "time"

// Rule is an order-level volume discount tier. Rules referenced by an order
// are immutable to preserve the audit trail.
type Rule struct {
	ID            int64     `json:"id"`
	MinimumAmount float64   `json:"minimum_amount"`
	Percentage    float64   `json:"discount_percentage"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// LineInput is a cart line snapshot fed to the evaluator.
type LineInput struct {
	ProductID int64
	Quantity  int
	UnitPrice float64
	CostBasis *float64
}

// LineQuote carries the per-line promotional discount breakdown.
type LineQuote struct {
	ProductID          int64
	Quantity           int
	EffectiveUnitPrice float64
	CostBasis          float64
	DiscountPct        float64
	DiscountAmount     float64
	Subtotal           float64
}

// Quote is the full pricing result for one cart snapshot.
type Quote struct {
	Lines        []LineQuote
	Gross        float64
	RuleID       *int64
	VolumePct    float64
	VolumeAmount float64
	Total        float64
}
