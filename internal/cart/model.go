package cart

// Line is one cart entry. Carts are ephemeral per session and never persist
// to the database; orders snapshot everything they need at placement.
type Line struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}
