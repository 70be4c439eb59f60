package mapper

import (
	"time"

	bagmapper "github.com/Apurer/go-gin-storefront/internal/domains/bag/adapters/http/mapper"
	checkouttypes "github.com/Apurer/go-gin-storefront/internal/domains/checkout/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
)

// SubmitRequest is the order form plus the checkout controls posted with it.
type SubmitRequest struct {
	checkouttypes.OrderForm
	SaveInfo     bool   `json:"saveInfo" form:"save_info"`
	ClientSecret string `json:"clientSecret" form:"client_secret"`
}

// Session is the checkout page payload.
type Session struct {
	Bag             bagmapper.Summary `json:"bag"`
	ClientSecret    string            `json:"clientSecret,omitempty"`
	StripePublicKey string            `json:"stripePublicKey,omitempty"`
	Currency        string            `json:"currency"`
	Warnings        []string          `json:"warnings,omitempty"`
}

// LineItem is the HTTP representation of a persisted order line.
type LineItem struct {
	ProductID int64  `json:"productId"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

// Order is the confirmation view of a committed order.
type Order struct {
	OrderNumber    string     `json:"orderNumber"`
	Date           time.Time  `json:"date"`
	FullName       string     `json:"fullName"`
	Email          string     `json:"email"`
	PhoneNumber    string     `json:"phoneNumber"`
	Country        string     `json:"country"`
	Postcode       string     `json:"postcode,omitempty"`
	TownOrCity     string     `json:"townOrCity"`
	StreetAddress1 string     `json:"streetAddress1"`
	StreetAddress2 string     `json:"streetAddress2,omitempty"`
	County         string     `json:"county,omitempty"`
	OrderTotal     string     `json:"orderTotal"`
	DeliveryCost   string     `json:"deliveryCost"`
	GrandTotal     string     `json:"grandTotal"`
	LineItems      []LineItem `json:"lineItems"`
}

// Submitted acknowledges a committed checkout.
type Submitted struct {
	OrderNumber string `json:"orderNumber"`
	State       string `json:"state"`
	SaveInfo    bool   `json:"saveInfo"`
	Redirect    string `json:"redirect"`
}

// Confirmation wraps the order with the message shown on the success page.
type Confirmation struct {
	Message string `json:"message"`
	Order   Order  `json:"order"`
}

// ToSubmitInput splits the posted request into the service input fields.
func ToSubmitInput(req SubmitRequest) checkouttypes.SubmitInput {
	return checkouttypes.SubmitInput{
		Form:         req.OrderForm,
		SaveInfo:     req.SaveInfo,
		ClientSecret: req.ClientSecret,
	}
}

// FromSession maps a started checkout.
func FromSession(session *checkouttypes.Session) Session {
	return Session{
		Bag:             bagmapper.FromSummary(session.Summary),
		ClientSecret:    session.ClientSecret,
		StripePublicKey: session.PublicKey,
		Currency:        session.Currency,
		Warnings:        session.Warnings,
	}
}

// FromOrder maps a persisted order.
func FromOrder(o *domain.Order) Order {
	out := Order{
		OrderNumber:    o.OrderNumber,
		Date:           o.Date,
		FullName:       o.Contact.FullName,
		Email:          o.Contact.Email,
		PhoneNumber:    o.Contact.PhoneNumber,
		Country:        o.Address.Country,
		Postcode:       o.Address.Postcode,
		TownOrCity:     o.Address.TownOrCity,
		StreetAddress1: o.Address.StreetAddress1,
		StreetAddress2: o.Address.StreetAddress2,
		County:         o.Address.County,
		OrderTotal:     o.OrderTotal.StringFixed(2),
		DeliveryCost:   o.DeliveryCost.StringFixed(2),
		GrandTotal:     o.GrandTotal.StringFixed(2),
		LineItems:      make([]LineItem, 0, len(o.LineItems)),
	}
	for _, item := range o.LineItems {
		out.LineItems = append(out.LineItems, LineItem{
			ProductID: item.ProductID,
			Size:      item.Size,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal.StringFixed(2),
		})
	}
	return out
}
