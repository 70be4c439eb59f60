package mapper

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	catalogtypes "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/projection"
)

// Category is the HTTP representation of a product category.
type Category struct {
	ID           int64  `json:"id,omitempty"`
	Name         string `json:"name"`
	FriendlyName string `json:"friendlyName,omitempty"`
}

// Product is the HTTP representation of a catalog product.
type Product struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"sku,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price"`
	Rating      *string   `json:"rating,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Category    *Category `json:"category,omitempty"`
	HasSizes    bool      `json:"hasSizes"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// MutationProduct captures inbound payloads for create/update flows while preserving field presence.
type MutationProduct struct {
	SKU         *string          `json:"sku,omitempty"`
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Rating      *decimal.Decimal `json:"rating,omitempty"`
	ImageURL    *string          `json:"imageUrl,omitempty"`
	Category    *Category        `json:"category,omitempty"`
	HasSizes    *bool            `json:"hasSizes,omitempty"`
}

// Listing mirrors the catalog page context.
type Listing struct {
	Products          []Product  `json:"products"`
	SearchTerm        string     `json:"searchTerm,omitempty"`
	CurrentCategories []Category `json:"currentCategories,omitempty"`
	CurrentSorting    string     `json:"currentSorting"`
}

// ToMutationInput converts a mutation payload into an application mutation input.
func ToMutationInput(model MutationProduct) catalogtypes.ProductMutationInput {
	input := catalogtypes.ProductMutationInput{
		SKU:         cloneString(model.SKU),
		Name:        cloneString(model.Name),
		Description: cloneString(model.Description),
		ImageURL:    cloneString(model.ImageURL),
	}
	if model.Price != nil {
		price := *model.Price
		input.Price = &price
	}
	if model.Rating != nil {
		rating := *model.Rating
		input.Rating = &rating
	}
	if model.Category != nil {
		input.Category = &catalogtypes.CategoryInput{
			Name:         strings.TrimSpace(model.Category.Name),
			FriendlyName: model.Category.FriendlyName,
		}
	}
	if model.HasSizes != nil {
		sized := *model.HasSizes
		input.HasSizes = &sized
	}
	return input
}

// FromDomainProduct maps a domain aggregate into a transport Product.
func FromDomainProduct(p *domain.Product) Product {
	out := Product{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		ImageURL:    p.ImageURL,
		HasSizes:    p.HasSizes,
	}
	if p.Rating != nil {
		rating := p.Rating.StringFixed(2)
		out.Rating = &rating
	}
	if p.Category != nil {
		category := FromDomainCategory(*p.Category)
		out.Category = &category
	}
	return out
}

// FromDomainCategory maps a domain category into its transport form.
func FromDomainCategory(c domain.Category) Category {
	return Category{ID: c.ID, Name: c.Name, FriendlyName: c.DisplayName()}
}

// FromProjection maps a projection into a transport product enriched with metadata.
func FromProjection(p *projection.Projection[*domain.Product]) Product {
	product := FromDomainProduct(p.Entity)
	product.CreatedAt = p.Metadata.CreatedAt
	product.UpdatedAt = p.Metadata.UpdatedAt
	return product
}

// FromListing maps the catalog listing result.
func FromListing(listing *catalogtypes.Listing) Listing {
	out := Listing{
		Products:       make([]Product, 0, len(listing.Products)),
		SearchTerm:     listing.SearchTerm,
		CurrentSorting: listing.CurrentSorting,
	}
	for _, p := range listing.Products {
		out.Products = append(out.Products, FromProjection(p))
	}
	for _, c := range listing.CurrentCategories {
		out.CurrentCategories = append(out.CurrentCategories, FromDomainCategory(c))
	}
	return out
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	copy := *value
	return &copy
}
