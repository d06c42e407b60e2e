package catalog

import (
	"errors"
	"time"
)

// Product is a catalog record. Price is always derived from cost and margin,
// never edited on its own.
type Product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Cost         float64   `json:"cost"`
	ProfitMargin float64   `json:"profit_margin"`
	Price        float64   `json:"price"`
	Quantity     int64     `json:"quantity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductRef is the (id, name) pair used by category pickers.
type ProductRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// StockStatus annotates a product with its low-stock flag.
type StockStatus struct {
	Product
	LowStock bool `json:"low_stock"`
}

// ErrNotFound indicates a missing catalog record.
var ErrNotFound = errors.New("catalog: product not found")
