package types

import "github.com/shopspring/decimal"

// CategoryInput references a category by name; it is created when missing.
type CategoryInput struct {
	Name         string
	FriendlyName string
}

// ProductMutationInput captures create/update payloads. Nil pointers leave fields untouched on edit.
type ProductMutationInput struct {
	SKU         *string
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Rating      *decimal.Decimal
	ImageURL    *string
	Category    *CategoryInput
	HasSizes    *bool
}

// EditProductInput applies a partial mutation to an existing product.
type EditProductInput struct {
	ID int64
	ProductMutationInput
}
