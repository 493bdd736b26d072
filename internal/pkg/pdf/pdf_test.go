package pdf

import (
	"html"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/boba-pos-backend/internal/config"
	"github.com/your-org/boba-pos-backend/internal/domain/order"
)

func TestRenderReceiptHTML(t *testing.T) {
	svc := NewService(&config.Config{POS: config.POSConfig{StoreName: "Boba Tea Co.", StorePhone: "555-0100"}})

	o := &order.Order{
		OrderNumber:   "BOB-20260715-00042",
		CustomerID:    7,
		PaymentMethod: order.PaymentMethodCreditCard,
		Subtotal:      decimal.RequireFromString("9.50"),
		Tax:           decimal.RequireFromString("0.78"),
		Total:         decimal.RequireFromString("10.28"),
		PointsEarned:  1028,
		CreatedAt:     time.Date(2026, 7, 15, 14, 30, 0, 0, time.UTC),
		Items: []order.OrderItem{{
			Name:      "Classic Milk Tea",
			Quantity:  2,
			LineTotal: decimal.RequireFromString("9.50"),
			Options: []order.OrderItemOption{
				{OptionID: 0, Group: "size", Name: "Regular"},
				{OptionID: 3, Group: "size", Name: "Large", PriceDelta: decimal.RequireFromString("0.50")},
				{OptionID: 9, Group: "addon", Name: "Boba", PriceDelta: decimal.RequireFromString("0.25")},
			},
		}},
	}

	rendered, err := svc.RenderReceiptHTML(o)
	require.NoError(t, err)
	// option deltas are entity-escaped by html/template
	text := html.UnescapeString(rendered)

	for _, want := range []string{
		"Boba Tea Co.",
		"555-0100",
		"BOB-20260715-00042",
		"2 x Classic Milk Tea",
		"Large +0.50, Boba +0.25",
		"10.28",
		"Credit Card",
		"Kiosk order",
		"Rewards points earned: 1028",
	} {
		assert.Contains(t, text, want)
	}
	assert.Contains(t, rendered, "Large &#43;0.50, Boba &#43;0.25")
	assert.NotContains(t, text, "Regular", "regular options are not printed")
}

func TestRenderReceiptHTML_Guest(t *testing.T) {
	svc := NewService(&config.Config{})
	o := &order.Order{
		OrderNumber:   "BOB-20260715-00043",
		EmployeeID:    3,
		PaymentMethod: order.PaymentMethodCash,
		Notes:         "<b>extra straw</b>",
	}

	rendered, err := svc.RenderReceiptHTML(o)
	require.NoError(t, err)

	assert.NotContains(t, rendered, "Rewards points", "guest receipts carry no rewards line")
	assert.Contains(t, rendered, "Served by #3")
	assert.NotContains(t, rendered, "<b>extra straw</b>", "notes are escaped")
	assert.Contains(t, rendered, "&lt;b&gt;extra straw&lt;/b&gt;")
}
