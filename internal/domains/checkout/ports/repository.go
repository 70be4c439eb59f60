package ports

import (
	"context"
	"errors"

	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// Tx is the transaction-scoped persistence surface used while reconciling an order.
// Product lookups through Tx observe the same transaction as the writes.
type Tx interface {
	catalogports.Lookup
	CreateOrder(ctx context.Context, order *domain.Order) error
	CreateLineItems(ctx context.Context, items []domain.LineItem) error
	UpdateTotals(ctx context.Context, order *domain.Order) error
	DeleteOrder(ctx context.Context, orderID int64) error
}

// UnitOfWork runs fn as one unit. Returning an error from fn discards the work where the
// backing store supports it.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// OrderRepository reads committed orders.
type OrderRepository interface {
	GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
}
