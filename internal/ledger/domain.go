package ledger

import "errors"

// IntakeInput describes a stock intake request. Quantity merges additively
// into an existing (name, category) record; cost, margin and the derived
// price overwrite it.
type IntakeInput struct {
	Name         string
	Category     string
	Cost         float64
	ProfitMargin float64
	Quantity     int64
}

// IntakeResult reports the affected product and its derived selling price.
type IntakeResult struct {
	ProductID int64   `json:"product_id"`
	Price     float64 `json:"price"`
}

// SaleInput describes a sale recording request.
type SaleInput struct {
	ProductID int64
	Quantity  int64
	// IdempotencyKey, when set, deduplicates retries of the same sale.
	IdempotencyKey string
}

// SaleResult is the outcome of RecordSale. A rejected sale (unknown product
// or insufficient stock) is an expected outcome, not an error.
type SaleResult struct {
	Accepted bool    `json:"accepted"`
	SaleID   int64   `json:"sale_id,omitempty"`
	Total    float64 `json:"total"`
	Profit   float64 `json:"profit"`
}

// ErrInvalidQuantity indicates a non-positive quantity.
var ErrInvalidQuantity = errors.New("ledger: quantity must be positive")

// ErrInvalidCost indicates a negative unit cost.
var ErrInvalidCost = errors.New("ledger: cost must be >= 0")

// ErrInvalidMargin indicates a profit margin outside [0, 100].
var ErrInvalidMargin = errors.New("ledger: profit margin must be between 0 and 100")
