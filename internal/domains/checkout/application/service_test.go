package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	bagapp "github.com/Apurer/go-gin-storefront/internal/domains/bag/application"
	bagdomain "github.com/Apurer/go-gin-storefront/internal/domains/bag/domain"
	checkoutmemory "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/memory"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

type fakeIntents struct {
	amounts    []int64
	currencies []string
	err        error
}

func (f *fakeIntents) CreateIntent(_ context.Context, amount int64, currency string) (ports.Intent, error) {
	f.amounts = append(f.amounts, amount)
	f.currencies = append(f.currencies, currency)
	if f.err != nil {
		return ports.Intent{}, f.err
	}
	return ports.Intent{ID: "pi_1", ClientSecret: "pi_1_secret_2"}, nil
}

type fakeDispatcher struct {
	sent []ports.Confirmation
	err  error
}

func (f *fakeDispatcher) DispatchConfirmation(_ context.Context, c ports.Confirmation) error {
	f.sent = append(f.sent, c)
	return f.err
}

type fixture struct {
	svc        *Service
	store      *checkoutmemory.Store
	intents    *fakeIntents
	dispatcher *fakeDispatcher
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	catalog := newCatalog(t)
	store := checkoutmemory.NewStore(catalog)
	intents := &fakeIntents{}
	dispatcher := &fakeDispatcher{}
	svc := NewService(
		bagapp.NewAggregator(catalog, flatDelivery()),
		NewPaymentInitiator(intents),
		newReconciler(store),
		store,
		dispatcher,
		cfg,
	)
	return &fixture{svc: svc, store: store, intents: intents, dispatcher: dispatcher}
}

func TestStart_CreatesIntentForGrandTotal(t *testing.T) {
	f := newFixture(t, Config{Currency: "USD", PublicKey: "pk_test"})

	session, err := f.svc.Start(context.Background(), decodeBag(t, `{"42": 3}`))
	require.NoError(t, err)
	require.Equal(t, "35.00", session.Summary.GrandTotal.StringFixed(2))
	require.Equal(t, "pi_1_secret_2", session.ClientSecret)
	require.Equal(t, "pk_test", session.PublicKey)
	require.Empty(t, session.Warnings)
	require.Equal(t, []int64{3500}, f.intents.amounts)
	require.Equal(t, []string{"usd"}, f.intents.currencies)
}

func TestStart_EmptyBagNeverReachesPayments(t *testing.T) {
	f := newFixture(t, Config{PublicKey: "pk_test"})

	_, err := f.svc.Start(context.Background(), bagdomain.New())
	require.ErrorIs(t, err, ErrEmptyBag)
	require.Empty(t, f.intents.amounts)
	require.Zero(t, f.store.OrderCount())
}

func TestStart_MissingCredentialsDegrade(t *testing.T) {
	f := newFixture(t, Config{})
	f.intents.err = ports.ErrPaymentNotConfigured

	session, err := f.svc.Start(context.Background(), decodeBag(t, `{"42": 1}`))
	require.NoError(t, err)
	require.Empty(t, session.ClientSecret)
	require.Len(t, session.Warnings, 2)
	require.Contains(t, session.Warnings[0], "public key is missing")
}

func TestStart_NilInitiatorDegrades(t *testing.T) {
	catalog := newCatalog(t)
	store := checkoutmemory.NewStore(catalog)
	svc := NewService(bagapp.NewAggregator(catalog, flatDelivery()), nil, newReconciler(store), store, nil, Config{PublicKey: "pk"})

	session, err := svc.Start(context.Background(), decodeBag(t, `{"42": 1}`))
	require.NoError(t, err)
	require.Equal(t, []string{warnMissingSecretKey}, session.Warnings)
}

func TestStart_UnavailableProcessorBlocks(t *testing.T) {
	f := newFixture(t, Config{PublicKey: "pk_test"})
	f.intents.err = fmt.Errorf("%w: timeout", ports.ErrPaymentServiceUnavailable)

	_, err := f.svc.Start(context.Background(), decodeBag(t, `{"42": 1}`))
	require.ErrorIs(t, err, ports.ErrPaymentServiceUnavailable)
	require.Len(t, f.intents.amounts, 1)
}

func TestStart_MissingProductSurfaces(t *testing.T) {
	f := newFixture(t, Config{PublicKey: "pk_test"})

	_, err := f.svc.Start(context.Background(), decodeBag(t, `{"99": 1}`))
	require.ErrorIs(t, err, bagapp.ErrProductMissing)
	require.Empty(t, f.intents.amounts)
}

func TestSubmit_CommitsAndDispatchesConfirmation(t *testing.T) {
	f := newFixture(t, Config{Currency: "usd", PublicKey: "pk_test"})

	result, err := f.svc.Submit(context.Background(), types.SubmitInput{
		Form:         validForm(),
		Bag:          decodeBag(t, `{"42": 3}`),
		ClientSecret: "pi_1_secret_2",
	})
	require.NoError(t, err)
	require.Equal(t, "ORDER0001", result.OrderNumber)
	require.NoError(t, result.ConfirmationErr)
	require.Len(t, f.dispatcher.sent, 1)
	require.Equal(t, "jane@example.com", f.dispatcher.sent[0].Email)
	require.Equal(t, "35.00", f.dispatcher.sent[0].GrandTotal.StringFixed(2))

	order, err := f.svc.GetOrder(context.Background(), "ORDER0001")
	require.NoError(t, err)
	require.Equal(t, "pi_1", order.PaymentIntentID)
}

func TestSubmit_DispatchFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(t, Config{PublicKey: "pk_test"})
	f.dispatcher.err = errors.New("temporal down")

	result, err := f.svc.Submit(context.Background(), types.SubmitInput{Form: validForm(), Bag: decodeBag(t, `{"42": 1}`)})
	require.NoError(t, err)
	require.Error(t, result.ConfirmationErr)
	require.Equal(t, 1, f.store.OrderCount())
}

func TestSubmit_RollbackSkipsConfirmation(t *testing.T) {
	f := newFixture(t, Config{PublicKey: "pk_test"})

	_, err := f.svc.Submit(context.Background(), types.SubmitInput{Form: validForm(), Bag: decodeBag(t, `{"42": 1, "99": 2}`)})
	require.ErrorIs(t, err, ErrOrderRolledBack)
	require.Empty(t, f.dispatcher.sent)
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newFixture(t, Config{})

	_, err := f.svc.GetOrder(context.Background(), "missing")
	require.ErrorIs(t, err, ports.ErrOrderNotFound)
	_, err = f.svc.GetOrder(context.Background(), " ")
	require.ErrorIs(t, err, ports.ErrOrderNotFound)
}

func TestPaymentInitiator_RoundsHalfUp(t *testing.T) {
	intents := &fakeIntents{}
	p := NewPaymentInitiator(intents)

	_, err := p.Initiate(context.Background(), dec("12.345"), "EUR")
	require.NoError(t, err)
	require.Equal(t, []int64{1235}, intents.amounts)
	require.Equal(t, []string{"eur"}, intents.currencies)

	_, err = p.Initiate(context.Background(), dec("1"), "euro")
	require.ErrorIs(t, err, ErrInvalidInput)
}
