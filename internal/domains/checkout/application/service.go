package application

import (
	"context"
	"errors"
	"strings"

	bagdomain "github.com/Apurer/go-gin-storefront/internal/domains/bag/domain"
	bagports "github.com/Apurer/go-gin-storefront/internal/domains/bag/ports"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

const (
	warnMissingPublicKey = "Stripe public key is missing. Did you forget to set it in your environment?"
	warnMissingSecretKey = "Stripe secret key is missing. Payments cannot be taken until it is configured."
)

// Config holds the checkout settings sourced from process configuration.
type Config struct {
	Currency  string
	PublicKey string
}

// Service orchestrates the checkout bounded context use cases.
type Service struct {
	aggregator bagports.Aggregator
	payments   *PaymentInitiator
	reconciler *Reconciler
	orders     ports.OrderRepository
	dispatcher ports.ConfirmationDispatcher
	cfg        Config
}

// NewService wires the checkout service. dispatcher may be nil to skip confirmations.
func NewService(
	aggregator bagports.Aggregator,
	payments *PaymentInitiator,
	reconciler *Reconciler,
	orders ports.OrderRepository,
	dispatcher ports.ConfirmationDispatcher,
	cfg Config,
) *Service {
	if strings.TrimSpace(cfg.Currency) == "" {
		cfg.Currency = "usd"
	}
	return &Service{
		aggregator: aggregator,
		payments:   payments,
		reconciler: reconciler,
		orders:     orders,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

// Start prices the bag and creates a payment intent for its grand total. Missing credentials
// degrade to warnings; an unreachable processor blocks checkout.
func (s *Service) Start(ctx context.Context, bag *bagdomain.Bag) (*types.Session, error) {
	if bag.IsEmpty() {
		return nil, ErrEmptyBag
	}
	summary, err := s.aggregator.Compute(ctx, bag)
	if err != nil {
		return nil, err
	}
	session := &types.Session{
		Summary:   summary,
		PublicKey: s.cfg.PublicKey,
		Currency:  s.cfg.Currency,
	}
	if strings.TrimSpace(s.cfg.PublicKey) == "" {
		session.Warnings = append(session.Warnings, warnMissingPublicKey)
	}
	intent, err := s.payments.Initiate(ctx, summary.GrandTotal, s.cfg.Currency)
	switch {
	case errors.Is(err, ports.ErrPaymentNotConfigured):
		session.Warnings = append(session.Warnings, warnMissingSecretKey)
	case err != nil:
		return nil, err
	default:
		session.ClientSecret = intent.ClientSecret
	}
	return session, nil
}

// Submit reconciles the order and, once committed, dispatches its confirmation.
// Dispatch failures are reported on the result, never as the call's error.
func (s *Service) Submit(ctx context.Context, input types.SubmitInput) (*types.SubmitResult, error) {
	reconciled, err := s.reconciler.Reconcile(ctx, ReconcileInput{
		Form:         input.Form,
		Bag:          input.Bag,
		SaveInfo:     input.SaveInfo,
		ClientSecret: input.ClientSecret,
	})
	if err != nil {
		return nil, err
	}
	result := &types.SubmitResult{ReconcileResult: *reconciled}
	if s.dispatcher != nil {
		result.ConfirmationErr = s.dispatcher.DispatchConfirmation(ctx, confirmationFor(reconciled.Order, s.cfg.Currency))
	}
	return result, nil
}

// GetOrder loads a committed order for its confirmation page.
func (s *Service) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, ports.ErrOrderNotFound
	}
	return s.orders.GetByOrderNumber(ctx, orderNumber)
}

func confirmationFor(order *domain.Order, currency string) ports.Confirmation {
	return ports.Confirmation{
		OrderNumber: order.OrderNumber,
		Email:       order.Contact.Email,
		FullName:    order.Contact.FullName,
		GrandTotal:  order.GrandTotal,
		Currency:    currency,
	}
}

var _ ports.Service = (*Service)(nil)
