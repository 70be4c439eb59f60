package mapper

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/bag/ports"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
)

func TestFromSummary_FormatsMoney(t *testing.T) {
	product, err := catalogdomain.NewProduct(43, "Rain Jacket", decimal.RequireFromString("12.5"))
	require.NoError(t, err)
	product.HasSizes = true

	out := FromSummary(&ports.Summary{
		Lines: []ports.Line{{
			Product:  product,
			Size:     "M",
			Quantity: 2,
			Subtotal: decimal.RequireFromString("25"),
		}},
		ItemTotal:         decimal.RequireFromString("25"),
		DeliveryCost:      decimal.RequireFromString("5"),
		GrandTotal:        decimal.RequireFromString("30"),
		ProductCount:      2,
		FreeDeliveryDelta: decimal.RequireFromString("25"),
		FreeDeliveryAt:    decimal.RequireFromString("50"),
	})

	require.Len(t, out.Lines, 1)
	require.Equal(t, "25.00", out.Lines[0].Subtotal)
	require.Equal(t, "12.50", out.Lines[0].Product.Price)
	require.Equal(t, "M", out.Lines[0].Size)
	require.Equal(t, "30.00", out.GrandTotal)
	require.Equal(t, "50.00", out.FreeDeliveryAt)
}

func TestFromSummary_Nil(t *testing.T) {
	out := FromSummary(nil)
	require.NotNil(t, out.Lines)
	require.Empty(t, out.Lines)
}
