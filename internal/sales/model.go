package sales

import "time"

// Sale is an immutable ledger entry. Total is a frozen fact computed at sale
// time; ProductID is a weak reference that may outlive its product.
type Sale struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}
