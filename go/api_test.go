package storefrontserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	bagapp "github.com/Apurer/go-gin-storefront/internal/domains/bag/application"
	bagdomain "github.com/Apurer/go-gin-storefront/internal/domains/bag/domain"
	catalogmemory "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	checkoutmemory "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/memory"
	checkoutapp "github.com/Apurer/go-gin-storefront/internal/domains/checkout/application"
	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

type stubIntents struct{}

func (stubIntents) CreateIntent(context.Context, int64, string) (checkoutports.Intent, error) {
	return checkoutports.Intent{ID: "pi_test", ClientSecret: "pi_test_secret_abc"}, nil
}

type testApp struct {
	router  *gin.Engine
	catalog *catalogmemory.Repository
	orders  *checkoutmemory.Store
	cookies map[string]*http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := catalogmemory.NewRepository()
	for _, p := range []struct {
		id    int64
		name  string
		price string
		sized bool
	}{{42, "Plain Tee", "10.00", false}, {43, "Rain Jacket", "12.50", true}} {
		product, err := catalogdomain.NewProduct(p.id, p.name, decimal.RequireFromString(p.price))
		require.NoError(t, err)
		product.HasSizes = p.sized
		_, err = catalog.Save(context.Background(), product)
		require.NoError(t, err)
	}

	delivery := bagdomain.FlatDelivery{Threshold: decimal.RequireFromString("50"), Fee: decimal.RequireFromString("5")}
	catalogService := catalogapp.NewService(catalog)
	aggregator := bagapp.NewAggregator(catalogService, delivery)
	orders := checkoutmemory.NewStore(catalogService)
	checkout := checkoutapp.NewService(
		aggregator,
		checkoutapp.NewPaymentInitiator(stubIntents{}),
		checkoutapp.NewReconciler(orders, delivery),
		orders,
		nil,
		checkoutapp.Config{Currency: "usd", PublicKey: "pk_test"},
	)

	handlers := ApiHandleFunctions{
		ProductsAPI: NewProductsAPI(catalogService, nil),
		BagAPI:      NewBagAPI(aggregator, catalogService, nil),
		CheckoutAPI: NewCheckoutAPI(checkout, nil),
	}
	return &testApp{
		router:  NewRouter(handlers, NewCookieStore([]byte("test-secret-key-0123456789abcdef"), false)),
		catalog: catalog,
		orders:  orders,
		cookies: map[string]*http.Cookie{},
	}
}

// do sends a request carrying the cookies seen so far, like a browser would.
func (a *testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req)
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.send(req)
}

func (a *testApp) send(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range a.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	for _, cookie := range rec.Result().Cookies() {
		a.cookies[cookie.Name] = cookie
	}
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func messages(t *testing.T, body map[string]any) []string {
	t.Helper()
	raw, _ := body["messages"].([]any)
	out := make([]string, 0, len(raw))
	for _, m := range raw {
		out = append(out, m.(map[string]any)["message"].(string))
	}
	return out
}

func orderForm() map[string]any {
	return map[string]any{
		"fullName":       "Jane Doe",
		"email":          "jane@example.com",
		"phoneNumber":    "0123456789",
		"country":        "GB",
		"townOrCity":     "London",
		"streetAddress1": "1 High Street",
		"clientSecret":   "pi_test_secret_abc",
		"saveInfo":       true,
	}
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestStartCheckout_EmptyBagRedirectsToProducts(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/checkout", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/products", rec.Header().Get("Location"))

	rec = app.do(t, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, messages(t, decodeBody(t, rec)), "There is nothing in your bag at the moment")
	require.Zero(t, app.orders.OrderCount())
}

func TestStartCheckout_ReturnsPricedBagAndSecret(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/bag/add/42", map[string]any{"quantity": 3}).Code)

	rec := app.do(t, http.MethodGet, "/checkout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "pi_test_secret_abc", body["clientSecret"])
	require.Equal(t, "pk_test", body["stripePublicKey"])
	bag := body["bag"].(map[string]any)
	require.Equal(t, "35.00", bag["grandTotal"])
	require.Equal(t, "20.00", bag["freeDeliveryDelta"])
}

func TestBag_AddAdjustRemove(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/bag/add/43", map[string]any{"quantity": 2, "size": "m"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(t, http.MethodPost, "/bag/add/43", map[string]any{"quantity": 1, "size": "L"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "37.50", decodeBody(t, rec)["total"])

	rec = app.do(t, http.MethodGet, "/bag", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Len(t, body["bagItems"], 2)
	require.Contains(t, messages(t, body), "Added size L Rain Jacket to your bag")

	rec = app.do(t, http.MethodPost, "/bag/adjust/43", map[string]any{"quantity": 0, "size": "m"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody(t, rec)["bagItems"], 1)

	rec = app.do(t, http.MethodDelete, "/bag/remove/43?size=L", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(t, http.MethodGet, "/bag", nil)
	require.Empty(t, decodeBody(t, rec)["bagItems"])
}

func TestBag_SizeRules(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/bag/add/43", map[string]any{"quantity": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/bag/add/42", map[string]any{"quantity": 1, "size": "M"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/bag/add/999", map[string]any{"quantity": 1})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodPost, "/bag/add/42", map[string]any{"quantity": -1})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/bag/add/43", map[string]any{"quantity": 1, "size": "EXTRA-LARGE"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decodeBody(t, rec)["detail"], "at most 8 characters")
	require.Empty(t, decodeBody(t, app.do(t, http.MethodGet, "/bag", nil))["bagItems"])
}

func TestBag_FormPostsUseSizeField(t *testing.T) {
	app := newTestApp(t)

	rec := app.postForm("/bag/add/43", url.Values{"quantity": {"2"}, "size": {"M"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	lines := decodeBody(t, rec)["bagItems"].([]any)
	require.Len(t, lines, 1)
	require.Equal(t, "M", lines[0].(map[string]any)["size"])

	rec = app.postForm("/bag/adjust/43", url.Values{"quantity": {"5"}, "size": {"M"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "62.50", decodeBody(t, rec)["total"])
}

func TestSubmitCheckout_ClearsBagAfterCommit(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/bag/add/42", map[string]any{"quantity": 3}).Code)

	rec := app.do(t, http.MethodPost, "/checkout", orderForm())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	number := body["orderNumber"].(string)
	require.Len(t, number, 32)
	require.Equal(t, "committed", body["state"])
	require.Equal(t, true, body["saveInfo"])
	require.Equal(t, "/checkout/success/"+number, rec.Header().Get("Location"))
	require.Equal(t, 1, app.orders.OrderCount())

	rec = app.do(t, http.MethodGet, "/bag", nil)
	require.Empty(t, decodeBody(t, rec)["bagItems"])

	rec = app.do(t, http.MethodGet, "/checkout/success/"+number, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	confirmation := decodeBody(t, rec)
	order := confirmation["order"].(map[string]any)
	require.Equal(t, "35.00", order["grandTotal"])
	require.Contains(t, confirmation["message"], number)
}

func TestCheckoutSuccess_ShowsQueuedMessagesOnce(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/bag/add/42", map[string]any{"quantity": 1}).Code)
	rec := app.do(t, http.MethodPost, "/checkout", orderForm())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	number := decodeBody(t, rec)["orderNumber"].(string)
	location := rec.Header().Get("Location")

	first := decodeBody(t, app.do(t, http.MethodGet, location, nil))
	require.Contains(t, messages(t, first), successMessage(number, "jane@example.com"))

	second := decodeBody(t, app.do(t, http.MethodGet, location, nil))
	require.Empty(t, messages(t, second))
	require.Contains(t, second["message"], "Order successfully processed!")
}

func TestSubmitCheckout_InvalidFormKeepsBag(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/bag/add/42", map[string]any{"quantity": 1}).Code)

	form := orderForm()
	form["email"] = "not-an-email"
	rec := app.do(t, http.MethodPost, "/checkout", form)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	fields := body["extensions"].(map[string]any)["fields"].(map[string]any)
	require.Contains(t, fields, "email")
	submitted := body["extensions"].(map[string]any)["form"].(map[string]any)
	require.Equal(t, "not-an-email", submitted["email"])
	require.Zero(t, app.orders.OrderCount())

	rec = app.do(t, http.MethodGet, "/bag", nil)
	require.Len(t, decodeBody(t, rec)["bagItems"], 1)
}

func TestSubmitCheckout_MissingProductRollsBack(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/bag/add/42", map[string]any{"quantity": 1}).Code)
	require.NoError(t, app.catalog.Delete(context.Background(), 42))

	rec := app.do(t, http.MethodPost, "/checkout", orderForm())
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, checkoutapp.ErrOrderRolledBack.Error(), decodeBody(t, rec)["detail"])
	require.Zero(t, app.orders.OrderCount())
	require.Zero(t, app.orders.LineItemCount())

	// The bag still references the deleted product.
	rec = app.do(t, http.MethodGet, "/bag", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestSubmitCheckout_EmptyBagRedirects(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodPost, "/checkout", orderForm())
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/products", rec.Header().Get("Location"))
}

func TestCheckoutSuccess_UnknownOrder(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodGet, "/checkout/success/NOPE", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProducts_ListSearchAndCrud(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/products?sort=price&direction=desc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "price_desc", body["currentSorting"])
	products := body["products"].([]any)
	require.Len(t, products, 2)
	require.Equal(t, "Rain Jacket", products[0].(map[string]any)["name"])

	rec = app.do(t, http.MethodGet, "/products?q=", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	rec = app.do(t, http.MethodGet, "/products?q=tee", nil)
	body = decodeBody(t, rec)
	require.Contains(t, messages(t, body), "You didn't enter any search criteria!")
	require.Len(t, body["products"], 1)

	rec = app.do(t, http.MethodPost, "/products", map[string]any{"name": "Cap", "price": "7.5", "category": map[string]any{"name": "hats"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	require.Equal(t, "7.50", created["price"])

	rec = app.do(t, http.MethodPost, "/products", map[string]any{"name": "Free", "price": "0"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPut, "/products/42", map[string]any{"price": "11"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "11.00", decodeBody(t, rec)["price"])

	require.Equal(t, http.StatusNoContent, app.do(t, http.MethodDelete, "/products/42", nil).Code)
	require.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/products/42", nil).Code)
	require.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/products/abc", nil).Code)
}
