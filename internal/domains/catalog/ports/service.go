package ports

import (
	"context"

	catalogtypes "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application/types"
)

// Service defines the catalog use cases exposed to adapters (inbound/driving port).
type Service interface {
	Lookup
	List(ctx context.Context, input catalogtypes.ListProductsInput) (*catalogtypes.Listing, error)
	Get(ctx context.Context, input catalogtypes.ProductIdentifier) (*ProductProjection, error)
	Add(ctx context.Context, input catalogtypes.ProductMutationInput) (*ProductProjection, error)
	Edit(ctx context.Context, input catalogtypes.EditProductInput) (*ProductProjection, error)
	Delete(ctx context.Context, input catalogtypes.ProductIdentifier) error
}
