package storefrontserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	bagmapper "github.com/Apurer/go-gin-storefront/internal/domains/bag/adapters/http/mapper"
	bagdomain "github.com/Apurer/go-gin-storefront/internal/domains/bag/domain"
	bagports "github.com/Apurer/go-gin-storefront/internal/domains/bag/ports"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

var (
	errSizeRequired     = errors.New("please select a size for this product")
	errSizeNotSupported = errors.New("this product does not come in sizes")
)

// BagAPI serves the session bag: priced view plus add, adjust and remove.
type BagAPI struct {
	bags       SessionBagStore
	aggregator bagports.Aggregator
	catalog    catalogports.Lookup
	logger     *slog.Logger
}

// NewBagAPI creates a BagAPI pricing the session bag against the catalog.
func NewBagAPI(aggregator bagports.Aggregator, catalog catalogports.Lookup, logger *slog.Logger) BagAPI {
	if logger == nil {
		logger = discardLogger()
	}
	return BagAPI{aggregator: aggregator, catalog: catalog, logger: logger}
}

type bagResponse struct {
	bagmapper.Summary
	Messages []Flash `json:"messages,omitempty"`
}

// Get /bag
// Shows the priced bag contents
func (api *BagAPI) ViewBag(c *gin.Context) {
	bag := loadBag(c, api.bags, api.logger)
	summary, err := api.aggregator.Compute(c.Request.Context(), bag)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bagResponse{Summary: bagmapper.FromSummary(summary), Messages: popFlashes(c, api.logger)})
}

// Post /bag/add/:productId
// Adds a quantity of a product, per size for sized products
func (api *BagAPI) AddToBag(c *gin.Context) {
	api.mutate(c, "add", func(ctx context.Context, bag *bagdomain.Bag, id int64, item bagmapper.AddItem) (string, error) {
		name, err := api.checkSize(ctx, id, item.Size)
		if err != nil {
			return "", err
		}
		if err := bag.Add(id, item.Quantity, item.Size); err != nil {
			return "", err
		}
		return fmt.Sprintf("Added %s to your bag", describe(name, item.Size)), nil
	})
}

// Post /bag/adjust/:productId
// Sets the quantity of a product; zero removes it
func (api *BagAPI) AdjustBag(c *gin.Context) {
	api.mutate(c, "adjust", func(ctx context.Context, bag *bagdomain.Bag, id int64, item bagmapper.AddItem) (string, error) {
		name, err := api.checkSize(ctx, id, item.Size)
		if err != nil {
			return "", err
		}
		if err := bag.Adjust(id, item.Quantity, item.Size); err != nil {
			return "", err
		}
		if item.Quantity == 0 {
			return fmt.Sprintf("Removed %s from your bag", describe(name, item.Size)), nil
		}
		return fmt.Sprintf("Updated %s quantity to %d", describe(name, item.Size), item.Quantity), nil
	})
}

// Delete /bag/remove/:productId
// Removes a product, or one size of it when the size query is set
func (api *BagAPI) RemoveFromBag(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	size := c.Query("size")
	bag := loadBag(c, api.bags, api.logger)
	if err := bag.Remove(id, size); err != nil {
		respondServiceError(c, err)
		return
	}
	name := fmt.Sprintf("product %d", id)
	if product, err := api.catalog.Product(c.Request.Context(), id); err == nil {
		name = product.Name
	}
	queueFlash(c, flashSuccess, fmt.Sprintf("Removed %s from your bag", describe(name, size)))
	if err := api.bags.Save(c, bag); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type bagMutation func(ctx context.Context, bag *bagdomain.Bag, id int64, item bagmapper.AddItem) (string, error)

func (api *BagAPI) mutate(c *gin.Context, action string, apply bagMutation) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var item bagmapper.AddItem
	if err := c.ShouldBind(&item); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	item.Size = strings.TrimSpace(item.Size)
	bag := loadBag(c, api.bags, api.logger)
	message, err := apply(c.Request.Context(), bag, id, item)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	queueFlash(c, flashSuccess, message)
	if err := api.bags.Save(c, bag); err != nil {
		respondServiceError(c, err)
		return
	}
	api.logger.LogAttrs(c.Request.Context(), slog.LevelDebug, "bag updated",
		slog.String("bag.action", action),
		slog.Int64("product.id", id),
		slog.String("product.size", item.Size),
	)
	summary, err := api.aggregator.Compute(c.Request.Context(), bag)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bagmapper.FromSummary(summary))
}

// checkSize resolves the product and enforces that sized products get a size and plain ones do not.
func (api *BagAPI) checkSize(ctx context.Context, id int64, size string) (string, error) {
	product, err := api.catalog.Product(ctx, id)
	if err != nil {
		return "", err
	}
	switch {
	case product.HasSizes && size == "":
		return "", errSizeRequired
	case !product.HasSizes && size != "":
		return "", errSizeNotSupported
	}
	return product.Name, nil
}

// loadBag reads the session bag. A corrupt session bag is discarded and treated as empty.
func loadBag(c *gin.Context, store SessionBagStore, logger *slog.Logger) *bagdomain.Bag {
	bag, err := store.Load(c)
	if err != nil {
		logger.LogAttrs(c.Request.Context(), slog.LevelWarn, "discarding malformed session bag",
			slog.String("error", err.Error()))
		return bagdomain.New()
	}
	return bag
}

func describe(name, size string) string {
	if size == "" {
		return name
	}
	return fmt.Sprintf("size %s %s", strings.ToUpper(size), name)
}
