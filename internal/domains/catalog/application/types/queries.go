package types

import (
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/projection"
)

// ListProductsInput carries the raw catalog query parameters.
// SearchTerm is nil when no search was requested; a non-nil empty term is rejected.
type ListProductsInput struct {
	SearchTerm *string
	Categories []string
	Sort       string
	Direction  string
}

// ProductIdentifier references a product by its aggregate ID.
type ProductIdentifier struct {
	ID int64
}

// Listing is the catalog page result.
type Listing struct {
	Products          []*projection.Projection[*domain.Product]
	SearchTerm        string
	CurrentCategories []domain.Category
	CurrentSorting    string
}
