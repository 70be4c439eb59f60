package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/projection"
)

var ErrNotFound = errors.New("product not found")

// ProductProjection carries a product plus persistence timestamps.
type ProductProjection = projection.Projection[*domain.Product]

// Lookup resolves a single product for pricing and order reconciliation.
// Implementations return ErrNotFound when the product does not exist.
type Lookup interface {
	Product(ctx context.Context, id int64) (*domain.Product, error)
}

// Repository persists products and categories.
type Repository interface {
	Lookup
	Save(ctx context.Context, product *domain.Product) (*ProductProjection, error)
	GetByID(ctx context.Context, id int64) (*ProductProjection, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query domain.Query) ([]*ProductProjection, error)
	SaveCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	CategoriesByName(ctx context.Context, names []string) ([]domain.Category, error)
}
