package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
)

var (
	// ErrInvalidInput signals the request violated a checkout invariant.
	ErrInvalidInput = errors.New("invalid checkout input")
	// ErrEmptyBag signals checkout was attempted with nothing in the bag.
	ErrEmptyBag = errors.New("there is nothing in your bag at the moment")
	// ErrOrderRolledBack is the single user-facing failure of an order that could not be materialized.
	ErrOrderRolledBack = errors.New("one of the products in your bag wasn't found in our database. Please call us for assistance")
	// ErrSizeMismatch signals a bag entry whose shape contradicts the product's size flag.
	ErrSizeMismatch = errors.New("bag entry shape does not match product sizes")
)

// ValidationError reports field-level form problems. Form is the submitted data, untouched.
type ValidationError struct {
	Fields map[string]string
	Form   types.OrderForm
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("order form is invalid: %s", strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrInvalidCurrency) ||
		errors.Is(err, domain.ErrInvalidLineQuantity) ||
		errors.Is(err, domain.ErrMissingProduct) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
