package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Category groups products in the catalog.
type Category struct {
	ID           int64
	Name         string
	FriendlyName string
}

// DisplayName prefers the friendly name when one is set.
func (c Category) DisplayName() string {
	if strings.TrimSpace(c.FriendlyName) != "" {
		return c.FriendlyName
	}
	return c.Name
}

// Product is the aggregate managed by the catalog bounded context.
type Product struct {
	ID          int64
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	Rating      *decimal.Decimal
	ImageURL    string
	Category    *Category
	HasSizes    bool
}

var (
	ErrEmptyName     = errors.New("product name is required")
	ErrInvalidPrice  = errors.New("product price must be greater than zero")
	ErrInvalidRating = errors.New("product rating must be between 0 and 5")
	ErrEmptyCategory = errors.New("category name is required")
)

var maxRating = decimal.NewFromInt(5)

// NewProduct validates the invariants and builds a new Product aggregate.
func NewProduct(id int64, name string, price decimal.Decimal) (*Product, error) {
	p := &Product{ID: id}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	if err := p.Reprice(price); err != nil {
		return nil, err
	}
	return p, nil
}

// Rename mutates the product name ensuring the invariant.
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// Reprice stores a new unit price. Prices are kept at two decimal places.
func (p *Product) Reprice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return ErrInvalidPrice
	}
	p.Price = price.Round(2)
	return nil
}

// Rate sets or clears the product rating.
func (p *Product) Rate(rating *decimal.Decimal) error {
	if rating == nil {
		p.Rating = nil
		return nil
	}
	if rating.IsNegative() || rating.GreaterThan(maxRating) {
		return ErrInvalidRating
	}
	r := rating.Round(2)
	p.Rating = &r
	return nil
}

// UpdateCategory sets a new category pointer.
func (p *Product) UpdateCategory(cat *Category) {
	if cat == nil {
		p.Category = nil
		return
	}
	copy := *cat
	p.Category = &copy
}

// Clone returns a deep copy of the product.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Rating != nil {
		r := *p.Rating
		clone.Rating = &r
	}
	if p.Category != nil {
		c := *p.Category
		clone.Category = &c
	}
	return &clone
}

// NewCategory validates a category name.
func NewCategory(name, friendlyName string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyCategory
	}
	return &Category{Name: name, FriendlyName: strings.TrimSpace(friendlyName)}, nil
}
