package mapper

import (
	catalogmapper "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/http/mapper"
	"github.com/Apurer/go-gin-storefront/internal/domains/bag/ports"
)

// Line is the HTTP representation of one priced bag line.
type Line struct {
	Product  catalogmapper.Product `json:"product"`
	Size     string                `json:"size,omitempty"`
	Quantity int                   `json:"quantity"`
	Subtotal string                `json:"subtotal"`
}

// Summary mirrors the bag context shown on the bag and checkout pages.
type Summary struct {
	Lines             []Line `json:"bagItems"`
	ItemTotal         string `json:"total"`
	ProductCount      int    `json:"productCount"`
	DeliveryCost      string `json:"delivery"`
	FreeDeliveryDelta string `json:"freeDeliveryDelta"`
	FreeDeliveryAt    string `json:"freeDeliveryThreshold"`
	GrandTotal        string `json:"grandTotal"`
}

// AddItem is the payload accepted by the add and adjust endpoints.
type AddItem struct {
	Quantity int    `json:"quantity" form:"quantity"`
	Size     string `json:"size" form:"size"`
}

// FromSummary converts an aggregated bag into its transport shape.
func FromSummary(summary *ports.Summary) Summary {
	if summary == nil {
		return Summary{Lines: []Line{}}
	}
	out := Summary{
		Lines:             make([]Line, 0, len(summary.Lines)),
		ItemTotal:         summary.ItemTotal.StringFixed(2),
		ProductCount:      summary.ProductCount,
		DeliveryCost:      summary.DeliveryCost.StringFixed(2),
		FreeDeliveryDelta: summary.FreeDeliveryDelta.StringFixed(2),
		FreeDeliveryAt:    summary.FreeDeliveryAt.StringFixed(2),
		GrandTotal:        summary.GrandTotal.StringFixed(2),
	}
	for _, line := range summary.Lines {
		out.Lines = append(out.Lines, Line{
			Product:  catalogmapper.FromDomainProduct(line.Product),
			Size:     line.Size,
			Quantity: line.Quantity,
			Subtotal: line.Subtotal.StringFixed(2),
		})
	}
	return out
}
