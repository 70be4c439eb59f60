package ports

import (
	"context"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/bag/domain"
)

// Line is one priced (product, size) pairing of the bag.
type Line struct {
	Product  *catalogdomain.Product
	Size     string
	Quantity int
	Subtotal decimal.Decimal
}

// Summary is the priced view of a bag.
type Summary struct {
	Lines             []Line
	ItemTotal         decimal.Decimal
	DeliveryCost      decimal.Decimal
	GrandTotal        decimal.Decimal
	ProductCount      int
	FreeDeliveryDelta decimal.Decimal
	FreeDeliveryAt    decimal.Decimal
}

// Aggregator prices bag contents against the catalog (inbound/driving port).
type Aggregator interface {
	Compute(ctx context.Context, bag *domain.Bag) (*Summary, error)
}
