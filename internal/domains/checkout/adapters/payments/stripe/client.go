// Package stripe creates payment intents through the Stripe API.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

var _ ports.PaymentIntents = (*Client)(nil)

// Config holds the Stripe credentials and endpoint.
type Config struct {
	SecretKey string
	// APIURL overrides the Stripe API base URL, mainly for tests.
	APIURL string
}

// Client implements ports.PaymentIntents on stripe-go. Network retries are disabled because
// creating an intent without an idempotency key is not safe to repeat.
type Client struct {
	api        *client.API
	configured bool
}

// New builds a client. An empty secret key yields a client that reports ErrPaymentNotConfigured.
func New(cfg Config) *Client {
	key := strings.TrimSpace(cfg.SecretKey)
	if key == "" {
		return &Client{}
	}
	backendCfg := &stripeapi.BackendConfig{
		MaxNetworkRetries: stripeapi.Int64(0),
		LeveledLogger:     &stripeapi.LeveledLogger{Level: stripeapi.LevelError},
	}
	if url := strings.TrimSpace(cfg.APIURL); url != "" {
		backendCfg.URL = stripeapi.String(url)
	}
	backends := &stripeapi.Backends{
		API:     stripeapi.GetBackendWithConfig(stripeapi.APIBackend, backendCfg),
		Connect: stripeapi.GetBackendWithConfig(stripeapi.ConnectBackend, backendCfg),
		Uploads: stripeapi.GetBackendWithConfig(stripeapi.UploadsBackend, backendCfg),
	}
	return &Client{api: client.New(key, backends), configured: true}
}

// CreateIntent reserves amount (in minor units) in currency.
func (c *Client) CreateIntent(ctx context.Context, amount int64, currency string) (ports.Intent, error) {
	if c == nil || !c.configured {
		return ports.Intent{}, ports.ErrPaymentNotConfigured
	}
	params := &stripeapi.PaymentIntentParams{
		Amount:   stripeapi.Int64(amount),
		Currency: stripeapi.String(currency),
	}
	params.Context = ctx
	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return ports.Intent{}, classify(err)
	}
	return ports.Intent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

func classify(err error) error {
	var stripeErr *stripeapi.Error
	if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", ports.ErrPaymentNotConfigured, stripeErr.Msg)
	}
	return fmt.Errorf("%w: %w", ports.ErrPaymentServiceUnavailable, err)
}
