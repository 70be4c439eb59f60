package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	bagdomain "github.com/Apurer/go-gin-storefront/internal/domains/bag/domain"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

// ReconcileInput is a validated-on-entry checkout submission.
type ReconcileInput struct {
	Form         types.OrderForm
	Bag          *bagdomain.Bag
	SaveInfo     bool
	ClientSecret string
}

// Reconciler materializes one order with one line item per (product, size) pairing or leaves nothing behind.
type Reconciler struct {
	uow       ports.UnitOfWork
	validator *FormValidator
	delivery  bagdomain.DeliveryPolicy
	now       func() time.Time
	newNumber func() string
}

// ReconcilerOption customizes a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithClock overrides the order date source.
func WithClock(now func() time.Time) ReconcilerOption {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// WithOrderNumbers overrides order number generation.
func WithOrderNumbers(next func() string) ReconcilerOption {
	return func(r *Reconciler) {
		if next != nil {
			r.newNumber = next
		}
	}
}

// NewReconciler wires the reconciler with its unit of work and the delivery policy used for totals.
func NewReconciler(uow ports.UnitOfWork, delivery bagdomain.DeliveryPolicy, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		uow:       uow,
		validator: NewFormValidator(),
		delivery:  delivery,
		now:       time.Now,
		newNumber: domain.NewOrderNumber,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type run struct {
	result *types.ReconcileResult
}

func (r *run) enter(state domain.State) {
	r.result.State = state
	r.result.Trail = append(r.result.Trail, state)
}

// Reconcile validates the form, persists the order, and attaches its line items.
// On any failure the returned result is RolledBack and no order remains visible.
func (r *Reconciler) Reconcile(ctx context.Context, input ReconcileInput) (*types.ReconcileResult, error) {
	state := &run{result: &types.ReconcileResult{}}
	state.enter(domain.StateValidating)

	if err := r.validator.Validate(input.Form); err != nil {
		state.enter(domain.StateRolledBack)
		return state.result, err
	}
	if input.Bag.IsEmpty() {
		state.enter(domain.StateRolledBack)
		return state.result, ErrEmptyBag
	}

	original, err := bagdomain.Encode(input.Bag)
	if err != nil {
		state.enter(domain.StateRolledBack)
		return state.result, err
	}
	form := normalizeForm(input.Form)
	order := domain.NewOrder(r.newNumber(),
		domain.Contact{FullName: form.FullName, Email: form.Email, PhoneNumber: form.PhoneNumber},
		domain.Address{
			Country:        form.Country,
			Postcode:       form.Postcode,
			TownOrCity:     form.TownOrCity,
			StreetAddress1: form.StreetAddress1,
			StreetAddress2: form.StreetAddress2,
			County:         form.County,
		},
		r.now().UTC(),
	)
	order.OriginalBag = string(original)
	order.PaymentIntentID = domain.PaymentIntentIDFromSecret(input.ClientSecret)

	err = r.uow.Do(ctx, func(ctx context.Context, tx ports.Tx) error {
		state.enter(domain.StatePersisting)
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		state.enter(domain.StateLineItemsPending)
		if err := r.attachLineItems(ctx, tx, order, input.Bag); err != nil {
			if delErr := tx.DeleteOrder(ctx, order.ID); delErr != nil {
				return errors.Join(err, fmt.Errorf("compensating delete of order %s: %w", order.OrderNumber, delErr))
			}
			return err
		}
		return nil
	})
	if err != nil {
		state.enter(domain.StateRolledBack)
		return state.result, mapError(err)
	}

	state.enter(domain.StateCommitted)
	state.result.OrderNumber = order.OrderNumber
	state.result.Order = order
	state.result.SaveInfo = input.SaveInfo
	return state.result, nil
}

func (r *Reconciler) attachLineItems(ctx context.Context, tx ports.Tx, order *domain.Order, bag *bagdomain.Bag) error {
	var items []domain.LineItem
	for _, entry := range bag.Entries() {
		product, err := tx.Product(ctx, entry.ProductID)
		if err != nil {
			if errors.Is(err, catalogports.ErrNotFound) {
				return fmt.Errorf("%w: product %d: %w", ErrOrderRolledBack, entry.ProductID, err)
			}
			return err
		}
		if product.HasSizes != (entry.Kind == bagdomain.EntrySized) {
			return fmt.Errorf("%w: product %d: %w", ErrOrderRolledBack, entry.ProductID, ErrSizeMismatch)
		}
		for _, line := range entry.Lines() {
			item, err := domain.NewLineItem(order.ID, product.ID, line.Size, line.Quantity, product.Price)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
	}
	if err := tx.CreateLineItems(ctx, items); err != nil {
		return err
	}
	order.AttachLineItems(items)
	order.RecalculateTotals(r.delivery)
	return tx.UpdateTotals(ctx, order)
}
