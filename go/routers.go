package storefrontserver

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every storefront API.
type ApiHandleFunctions struct {
	ProductsAPI ProductsAPI
	BagAPI      BagAPI
	CheckoutAPI CheckoutAPI
}

// NewRouter returns a gin engine with recovery, sessions and every route registered.
func NewRouter(handleFunctions ApiHandleFunctions, store sessions.Store) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	return NewRouterWithGinEngine(router, handleFunctions, store)
}

// NewRouterWithGinEngine registers the session middleware and routes on an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, store sessions.Store) *gin.Engine {
	router.Use(sessions.Sessions(SessionName, store))
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"ListProducts", http.MethodGet, "/products", handleFunctions.ProductsAPI.ListProducts},
		{"GetProduct", http.MethodGet, "/products/:productId", handleFunctions.ProductsAPI.GetProduct},
		{"AddProduct", http.MethodPost, "/products", handleFunctions.ProductsAPI.AddProduct},
		{"EditProduct", http.MethodPut, "/products/:productId", handleFunctions.ProductsAPI.EditProduct},
		{"DeleteProduct", http.MethodDelete, "/products/:productId", handleFunctions.ProductsAPI.DeleteProduct},
		{"ViewBag", http.MethodGet, "/bag", handleFunctions.BagAPI.ViewBag},
		{"AddToBag", http.MethodPost, "/bag/add/:productId", handleFunctions.BagAPI.AddToBag},
		{"AdjustBag", http.MethodPost, "/bag/adjust/:productId", handleFunctions.BagAPI.AdjustBag},
		{"RemoveFromBag", http.MethodDelete, "/bag/remove/:productId", handleFunctions.BagAPI.RemoveFromBag},
		{"StartCheckout", http.MethodGet, "/checkout", handleFunctions.CheckoutAPI.StartCheckout},
		{"SubmitCheckout", http.MethodPost, "/checkout", handleFunctions.CheckoutAPI.SubmitCheckout},
		{"CheckoutSuccess", http.MethodGet, "/checkout/success/:orderNumber", handleFunctions.CheckoutAPI.CheckoutSuccess},
		{"Healthz", http.MethodGet, "/healthz", Healthz},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
