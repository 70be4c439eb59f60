package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront/internal/domains/bag/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/bag/ports"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

// ErrProductMissing signals a bag entry whose product no longer exists in the catalog.
var ErrProductMissing = errors.New("referenced product missing")

// Aggregator computes line subtotals and totals for a bag.
type Aggregator struct {
	catalog  catalogports.Lookup
	delivery domain.DeliveryPolicy
}

// NewAggregator wires the aggregator with the catalog lookup and delivery policy.
func NewAggregator(catalog catalogports.Lookup, delivery domain.DeliveryPolicy) *Aggregator {
	if delivery == nil {
		delivery = domain.FlatDelivery{}
	}
	return &Aggregator{catalog: catalog, delivery: delivery}
}

// Compute resolves every entry and prices the bag. A missing product yields ErrProductMissing.
func (a *Aggregator) Compute(ctx context.Context, bag *domain.Bag) (*ports.Summary, error) {
	summary := &ports.Summary{ItemTotal: decimal.Zero}
	for _, entry := range bag.Entries() {
		product, err := a.catalog.Product(ctx, entry.ProductID)
		if err != nil {
			if errors.Is(err, catalogports.ErrNotFound) {
				return nil, fmt.Errorf("%w: product %d", ErrProductMissing, entry.ProductID)
			}
			return nil, err
		}
		for _, line := range entry.Lines() {
			subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			summary.Lines = append(summary.Lines, ports.Line{
				Product:  product,
				Size:     line.Size,
				Quantity: line.Quantity,
				Subtotal: subtotal,
			})
			summary.ItemTotal = summary.ItemTotal.Add(subtotal)
			summary.ProductCount += line.Quantity
		}
	}
	summary.DeliveryCost = a.delivery.Cost(summary.ItemTotal)
	summary.GrandTotal = summary.ItemTotal.Add(summary.DeliveryCost)
	summary.FreeDeliveryAt = a.delivery.FreeThreshold()
	if summary.ItemTotal.LessThan(summary.FreeDeliveryAt) {
		summary.FreeDeliveryDelta = summary.FreeDeliveryAt.Sub(summary.ItemTotal)
	}
	return summary, nil
}

var _ ports.Aggregator = (*Aggregator)(nil)
