package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

func TestCreateIntent_SendsMinorUnits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "3500", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","amount":3500,"currency":"usd","client_secret":"pi_123_secret_abc"}`))
	}))
	defer server.Close()

	c := New(Config{SecretKey: "sk_test_123", APIURL: server.URL})
	intent, err := c.CreateIntent(context.Background(), 3500, "usd")
	require.NoError(t, err)
	require.Equal(t, "pi_123", intent.ID)
	require.Equal(t, "pi_123_secret_abc", intent.ClientSecret)
}

func TestCreateIntent_MissingKey(t *testing.T) {
	c := New(Config{})
	_, err := c.CreateIntent(context.Background(), 100, "usd")
	require.ErrorIs(t, err, ports.ErrPaymentNotConfigured)
}

func TestCreateIntent_RejectedKeyIsConfigurationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid API Key provided"}}`))
	}))
	defer server.Close()

	c := New(Config{SecretKey: "sk_test_bad", APIURL: server.URL})
	_, err := c.CreateIntent(context.Background(), 100, "usd")
	require.ErrorIs(t, err, ports.ErrPaymentNotConfigured)
}

func TestCreateIntent_ServerErrorIsUnavailableWithoutRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"type":"api_error","message":"boom"}}`))
	}))
	defer server.Close()

	c := New(Config{SecretKey: "sk_test_123", APIURL: server.URL})
	_, err := c.CreateIntent(context.Background(), 100, "usd")
	require.ErrorIs(t, err, ports.ErrPaymentServiceUnavailable)
	require.Equal(t, int32(1), calls.Load())
}

func TestCreateIntent_UnreachableIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := New(Config{SecretKey: "sk_test_123", APIURL: url})
	_, err := c.CreateIntent(context.Background(), 100, "usd")
	require.ErrorIs(t, err, ports.ErrPaymentServiceUnavailable)
}
