package types

import (
	bagdomain "github.com/Apurer/go-gin-storefront/internal/domains/bag/domain"
	bagports "github.com/Apurer/go-gin-storefront/internal/domains/bag/ports"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
)

// OrderForm is the customer and shipping form submitted at checkout.
type OrderForm struct {
	FullName       string `json:"fullName" form:"full_name" validate:"required,max=50"`
	Email          string `json:"email" form:"email" validate:"required,email,max=254"`
	PhoneNumber    string `json:"phoneNumber" form:"phone_number" validate:"required,max=20"`
	Country        string `json:"country" form:"country" validate:"required,iso3166_1_alpha2"`
	Postcode       string `json:"postcode" form:"postcode" validate:"max=20"`
	TownOrCity     string `json:"townOrCity" form:"town_or_city" validate:"required,max=40"`
	StreetAddress1 string `json:"streetAddress1" form:"street_address1" validate:"required,max=80"`
	StreetAddress2 string `json:"streetAddress2" form:"street_address2" validate:"max=80"`
	County         string `json:"county" form:"county" validate:"max=80"`
}

// Session is everything needed to render the checkout page.
type Session struct {
	Summary      *bagports.Summary
	ClientSecret string
	PublicKey    string
	Currency     string
	Warnings     []string
}

// SubmitInput carries a submitted order form plus the bag it pays for.
type SubmitInput struct {
	Form         OrderForm
	Bag          *bagdomain.Bag
	SaveInfo     bool
	ClientSecret string
}

// ReconcileResult reports how far reconciliation progressed. Trail lists every state entered.
type ReconcileResult struct {
	State       domain.State
	Trail       []domain.State
	OrderNumber string
	Order       *domain.Order
	SaveInfo    bool
}

// SubmitResult is the outcome of a committed checkout.
type SubmitResult struct {
	ReconcileResult
	// ConfirmationErr is set when the confirmation could not be dispatched; the order still stands.
	ConfirmationErr error
}
