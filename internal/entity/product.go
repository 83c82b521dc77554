package entity

import "github.com/shopspring/decimal"

// Product is static reference data; the catalog has no persistence.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}
