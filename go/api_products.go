package storefrontserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogmapper "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/http/mapper"
	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	catalogtypes "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

// ProductsAPI wires HTTP transport with the catalog bounded context service.
type ProductsAPI struct {
	service catalogports.Service
	logger  *slog.Logger
}

// NewProductsAPI creates a ProductsAPI backed by the provided service.
func NewProductsAPI(service catalogports.Service, logger *slog.Logger) ProductsAPI {
	if logger == nil {
		logger = discardLogger()
	}
	return ProductsAPI{service: service, logger: logger}
}

type listingResponse struct {
	catalogmapper.Listing
	Messages []Flash `json:"messages,omitempty"`
}

// Get /products
// Lists products with optional search, category filter and sorting
func (api *ProductsAPI) ListProducts(c *gin.Context) {
	input := catalogtypes.ListProductsInput{
		Sort:      c.Query("sort"),
		Direction: c.Query("direction"),
	}
	if term, ok := c.GetQuery("q"); ok {
		input.SearchTerm = &term
	}
	if category, ok := c.GetQuery("category"); ok {
		input.Categories = []string{category}
	}
	listing, err := api.service.List(c.Request.Context(), input)
	if errors.Is(err, catalogapp.ErrEmptySearch) {
		queueFlash(c, flashError, "You didn't enter any search criteria!")
		saveSession(c, api.logger)
		c.Redirect(http.StatusFound, "/products")
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, listingResponse{
		Listing:  catalogmapper.FromListing(listing),
		Messages: popFlashes(c, api.logger),
	})
}

// Get /products/:productId
// Shows a single product
func (api *ProductsAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	product, err := api.service.Get(c.Request.Context(), catalogtypes.ProductIdentifier{ID: id})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromProjection(product))
}

// Post /products
// Adds a product to the catalog
func (api *ProductsAPI) AddProduct(c *gin.Context) {
	var payload catalogmapper.MutationProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.service.Add(c.Request.Context(), catalogmapper.ToMutationInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, catalogmapper.FromProjection(saved))
}

// Put /products/:productId
// Edits an existing product; omitted fields are left untouched
func (api *ProductsAPI) EditProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload catalogmapper.MutationProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := catalogtypes.EditProductInput{ID: id, ProductMutationInput: catalogmapper.ToMutationInput(payload)}
	updated, err := api.service.Edit(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromProjection(updated))
}

// Delete /products/:productId
// Deletes a product
func (api *ProductsAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), catalogtypes.ProductIdentifier{ID: id}); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, errors.New(name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}
