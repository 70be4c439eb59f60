package ports

import (
	"context"
	"errors"
)

var (
	// ErrPaymentServiceUnavailable signals the payment processor could not be reached or failed.
	ErrPaymentServiceUnavailable = errors.New("payment service unavailable")
	// ErrPaymentNotConfigured signals missing payment credentials.
	ErrPaymentNotConfigured = errors.New("payment service credentials are not configured")
)

// Intent is a payment reservation created with the processor.
type Intent struct {
	ID           string
	ClientSecret string
}

// PaymentIntents creates payment intents for an amount in integer minor units (outbound/driven port).
type PaymentIntents interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (Intent, error)
}
