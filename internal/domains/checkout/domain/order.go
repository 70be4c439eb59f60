package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bagdomain "github.com/Apurer/go-gin-storefront/internal/domains/bag/domain"
)

var (
	ErrInvalidLineQuantity = errors.New("line item quantity must be positive")
	ErrMissingProduct      = errors.New("line item must reference a product")
)

// Contact holds the customer details captured by the order form.
type Contact struct {
	FullName    string
	Email       string
	PhoneNumber string
}

// Address is the shipping destination. Country is an ISO 3166-1 alpha-2 code.
type Address struct {
	Country        string
	Postcode       string
	TownOrCity     string
	StreetAddress1 string
	StreetAddress2 string
	County         string
}

// Order is the aggregate root materialized by checkout.
type Order struct {
	ID              int64
	OrderNumber     string
	Contact         Contact
	Address         Address
	Date            time.Time
	DeliveryCost    decimal.Decimal
	OrderTotal      decimal.Decimal
	GrandTotal      decimal.Decimal
	OriginalBag     string
	PaymentIntentID string
	LineItems       []LineItem
}

// LineItem is one (product, size) pairing of an order. Size is empty for unsized products.
type LineItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Size      string
	Quantity  int
	LineTotal decimal.Decimal
}

// NewOrderNumber returns a fresh 32 character upper-case hex order number.
func NewOrderNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// NewOrder builds an order with zero totals; totals are derived from line items later.
func NewOrder(number string, contact Contact, address Address, date time.Time) *Order {
	return &Order{
		OrderNumber:  number,
		Contact:      contact,
		Address:      address,
		Date:         date,
		DeliveryCost: decimal.Zero,
		OrderTotal:   decimal.Zero,
		GrandTotal:   decimal.Zero,
	}
}

// NewLineItem prices a line at the current product price.
func NewLineItem(orderID, productID int64, size string, quantity int, unitPrice decimal.Decimal) (LineItem, error) {
	if productID <= 0 {
		return LineItem{}, ErrMissingProduct
	}
	if quantity <= 0 {
		return LineItem{}, ErrInvalidLineQuantity
	}
	return LineItem{
		OrderID:   orderID,
		ProductID: productID,
		Size:      size,
		Quantity:  quantity,
		LineTotal: unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// AttachLineItems replaces the order's line items.
func (o *Order) AttachLineItems(items []LineItem) {
	o.LineItems = append([]LineItem(nil), items...)
}

// RecalculateTotals derives the order, delivery, and grand totals from the line items.
func (o *Order) RecalculateTotals(policy bagdomain.DeliveryPolicy) {
	total := decimal.Zero
	for _, item := range o.LineItems {
		total = total.Add(item.LineTotal)
	}
	o.OrderTotal = total
	o.DeliveryCost = decimal.Zero
	if policy != nil {
		o.DeliveryCost = policy.Cost(total)
	}
	o.GrandTotal = o.OrderTotal.Add(o.DeliveryCost)
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.LineItems = append([]LineItem(nil), o.LineItems...)
	return &clone
}

// PaymentIntentIDFromSecret extracts the intent id from a client secret of the form "<id>_secret_<token>".
func PaymentIntentIDFromSecret(clientSecret string) string {
	id, _, found := strings.Cut(strings.TrimSpace(clientSecret), "_secret")
	if !found {
		return ""
	}
	return id
}
