//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	pacttest "github.com/Apurer/go-gin-storefront/test/pact"

	storefrontserver "github.com/Apurer/go-gin-storefront/go"
	bagapp "github.com/Apurer/go-gin-storefront/internal/domains/bag/application"
	bagdomain "github.com/Apurer/go-gin-storefront/internal/domains/bag/domain"
	catalogmemory "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	checkoutmemory "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/memory"
	checkoutobs "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/observability"
	checkoutapp "github.com/Apurer/go-gin-storefront/internal/domains/checkout/application"
)

func TestStorefrontProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetCatalog(t)
			return nil, nil
		},
		pacttest.StateProductExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetCatalog(t)
			if setup {
				app.seedProduct(t, pacttest.ExistingProductID)
			}
			return nil, nil
		},
		pacttest.StateProductMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetCatalog(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.resetCatalog(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	repo   *catalogmemory.Repository
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	repo := catalogmemory.NewRepository()
	catalogService := catalogobs.New(catalogapp.NewService(repo))
	delivery := bagdomain.FlatDelivery{Threshold: decimal.NewFromInt(50), Fee: decimal.NewFromInt(5)}
	aggregator := bagapp.NewAggregator(catalogService, delivery)
	orders := checkoutmemory.NewStore(catalogService)
	checkoutService := checkoutobs.New(checkoutapp.NewService(
		aggregator,
		nil,
		checkoutapp.NewReconciler(orders, delivery),
		orders,
		nil,
		checkoutapp.Config{},
	))

	handlers := storefrontserver.ApiHandleFunctions{
		ProductsAPI: storefrontserver.NewProductsAPI(catalogService, nil),
		BagAPI:      storefrontserver.NewBagAPI(aggregator, catalogService, nil),
		CheckoutAPI: storefrontserver.NewCheckoutAPI(checkoutService, nil),
	}
	router := storefrontserver.NewRouter(handlers, storefrontserver.NewCookieStore([]byte("pact-session-secret"), false))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{repo: repo, server: server}
}

func (a *contractProviderApp) resetCatalog(t testing.TB) {
	t.Helper()
	products, err := a.repo.Search(context.Background(), catalogdomain.Query{})
	require.NoError(t, err)
	for _, projection := range products {
		_ = a.repo.Delete(context.Background(), projection.Entity.ID)
	}
}

func (a *contractProviderApp) seedProduct(t testing.TB, id int64) {
	t.Helper()
	ctx := context.Background()
	category, err := a.repo.SaveCategory(ctx, &catalogdomain.Category{Name: pacttest.ExampleCategory()})
	require.NoError(t, err)
	product, err := catalogdomain.NewProduct(id, pacttest.ExampleProductName(), decimal.RequireFromString(pacttest.ExampleProductPrice()))
	require.NoError(t, err)
	product.HasSizes = true
	product.UpdateCategory(category)
	_, err = a.repo.Save(ctx, product)
	require.NoError(t, err)
}
