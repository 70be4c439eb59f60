package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// Confirmation is the payload sent to the customer once an order commits.
type Confirmation struct {
	OrderNumber string
	Email       string
	FullName    string
	GrandTotal  decimal.Decimal
	Currency    string
}

// ConfirmationDispatcher schedules delivery of an order confirmation.
type ConfirmationDispatcher interface {
	DispatchConfirmation(ctx context.Context, confirmation Confirmation) error
}

// Notifier delivers a confirmation to the customer.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, confirmation Confirmation) error
}
