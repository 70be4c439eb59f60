package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidDeliveryPolicy = errors.New("delivery policy settings are invalid")

var hundred = decimal.NewFromInt(100)

// DeliveryPolicy prices delivery from the item total.
type DeliveryPolicy interface {
	// Cost returns the delivery surcharge for the given item total.
	Cost(itemTotal decimal.Decimal) decimal.Decimal
	// FreeThreshold is the item total at or above which delivery is free.
	FreeThreshold() decimal.Decimal
}

// FlatDelivery charges a fixed fee below the threshold.
type FlatDelivery struct {
	Threshold decimal.Decimal
	Fee       decimal.Decimal
}

func (p FlatDelivery) Cost(itemTotal decimal.Decimal) decimal.Decimal {
	if itemTotal.GreaterThanOrEqual(p.Threshold) {
		return decimal.Zero
	}
	return p.Fee
}

func (p FlatDelivery) FreeThreshold() decimal.Decimal { return p.Threshold }

// PercentageDelivery charges a percentage of the item total below the threshold.
type PercentageDelivery struct {
	Threshold decimal.Decimal
	Percent   decimal.Decimal
}

func (p PercentageDelivery) Cost(itemTotal decimal.Decimal) decimal.Decimal {
	if itemTotal.GreaterThanOrEqual(p.Threshold) {
		return decimal.Zero
	}
	return itemTotal.Mul(p.Percent).Div(hundred).Round(2)
}

func (p PercentageDelivery) FreeThreshold() decimal.Decimal { return p.Threshold }

// NewDeliveryPolicy selects a policy by kind ("flat" or "percentage").
func NewDeliveryPolicy(kind string, threshold, amount decimal.Decimal) (DeliveryPolicy, error) {
	if threshold.IsNegative() || amount.IsNegative() {
		return nil, ErrInvalidDeliveryPolicy
	}
	switch kind {
	case "", "flat":
		return FlatDelivery{Threshold: threshold, Fee: amount}, nil
	case "percentage", "percent":
		return PercentageDelivery{Threshold: threshold, Percent: amount}, nil
	default:
		return nil, ErrInvalidDeliveryPolicy
	}
}
