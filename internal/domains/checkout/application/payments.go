package application

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

// PaymentInitiator reserves the grand total with the payment processor.
type PaymentInitiator struct {
	intents ports.PaymentIntents
}

// NewPaymentInitiator wires the initiator. A nil intents client reports ErrPaymentNotConfigured.
func NewPaymentInitiator(intents ports.PaymentIntents) *PaymentInitiator {
	return &PaymentInitiator{intents: intents}
}

// Initiate converts the total to minor units and creates a payment intent. It never retries.
func (p *PaymentInitiator) Initiate(ctx context.Context, grandTotal decimal.Decimal, currency string) (ports.Intent, error) {
	code, err := domain.NormalizeCurrency(currency)
	if err != nil {
		return ports.Intent{}, mapError(err)
	}
	amount, err := domain.ToMinorUnits(grandTotal, code)
	if err != nil {
		return ports.Intent{}, mapError(err)
	}
	if p == nil || p.intents == nil {
		return ports.Intent{}, ports.ErrPaymentNotConfigured
	}
	return p.intents.CreateIntent(ctx, amount, code)
}
