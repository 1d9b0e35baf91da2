package inventory

import "time"

// Change is one append-only ledger row. Delta is negative for reservations
// and positive for restorations.
type Change struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Delta     int       `json:"delta"`
	CreatedAt time.Time `json:"created_at"`
}
