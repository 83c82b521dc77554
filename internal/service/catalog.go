package service

import (
	"github.com/jfsanchez2k/webflow-ecommerce/internal/entity"

	"github.com/shopspring/decimal"
)

// CatalogService serves the static product catalog. There is no catalog
// persistence; the set is fixed reference data.
type CatalogService struct {
	products []entity.Product
}

func NewCatalogService() *CatalogService {
	return &CatalogService{products: defaultProducts()}
}

// List always succeeds. Callers get a copy so the catalog cannot be
// mutated from outside.
func (cs *CatalogService) List() []entity.Product {
	products := make([]entity.Product, len(cs.products))
	copy(products, cs.products)
	return products
}

func defaultProducts() []entity.Product {
	return []entity.Product{
		{
			ID:          1,
			Name:        "Premium Product A",
			Description: "Detailed description of premium product A",
			Price:       decimal.RequireFromString("99.99"),
			Image:       "https://via.placeholder.com/300x200?text=Product+A",
		},
		{
			ID:          2,
			Name:        "Standard Product B",
			Description: "Detailed description of standard product B",
			Price:       decimal.RequireFromString("59.99"),
			Image:       "https://via.placeholder.com/300x200?text=Product+B",
		},
		{
			ID:          3,
			Name:        "Basic Product C",
			Description: "Detailed description of basic product C",
			Price:       decimal.RequireFromString("29.99"),
			Image:       "https://via.placeholder.com/300x200?text=Product+C",
		},
		{
			ID:          4,
			Name:        "Deluxe Product D",
			Description: "Detailed description of deluxe product D",
			Price:       decimal.RequireFromString("149.99"),
			Image:       "https://via.placeholder.com/300x200?text=Product+D",
		},
		{
			ID:          5,
			Name:        "Special Product E",
			Description: "Detailed description of special product E",
			Price:       decimal.RequireFromString("79.99"),
			Image:       "https://via.placeholder.com/300x200?text=Product+E",
		},
	}
}
