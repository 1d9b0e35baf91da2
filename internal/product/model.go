package product

import "time"

// Product is a catalog row. CostBasis is the merchant's acquisition cost and
// the reference price for promotions; UnitPrice is the current selling price.
type Product struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	UnitPrice   float64    `json:"unit_price"`
	CostBasis   *float64   `json:"cost_basis,omitempty"`
	StockOnHand int        `json:"stock_on_hand"`
	Archived    bool       `json:"archived"`
	Preorder    bool       `json:"preorder"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Available reports whether the product may appear on new orders.
func (p *Product) Available() bool {
	return !p.Archived && p.DeletedAt == nil
}
