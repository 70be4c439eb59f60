package ports

import (
	"context"

	bagdomain "github.com/Apurer/go-gin-storefront/internal/domains/bag/domain"
	checkouttypes "github.com/Apurer/go-gin-storefront/internal/domains/checkout/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
)

// Service defines the checkout use cases exposed to adapters (inbound/driving port).
type Service interface {
	Start(ctx context.Context, bag *bagdomain.Bag) (*checkouttypes.Session, error)
	Submit(ctx context.Context, input checkouttypes.SubmitInput) (*checkouttypes.SubmitResult, error)
	GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error)
}
