package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evently/internal/models"
)

func TestBuildReceipt(t *testing.T) {
	order := orderFixture()
	order.DiscountOff = 15000
	order.Total = 135000

	r := BuildReceipt(order)
	require.NotNil(t, r)

	assert.Equal(t, order.ID, r.OrderID)
	assert.Equal(t, order.Items, r.Items)
	assert.Equal(t, int64(150000), r.Subtotal)
	assert.Equal(t, int64(15000), r.DiscountOff)
	assert.Equal(t, int64(135000), r.Total)
	assert.Regexp(t, `^EV-\d{8}-[0-9A-Z]+$`, r.ReceiptNumber)
}

func TestReceiptNumber(t *testing.T) {
	issued := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	got := receiptNumber("a1b2c3d4-0000-0000-0000-000000000000", issued)
	assert.Equal(t, "EV-20260829-A1B2C3D4", got)
}

func TestRenderEmailBody(t *testing.T) {
	r := &models.Receipt{
		ReceiptNumber: "EV-20260829-A1B2C3D4",
		OrderID:       "o-1",
		IssuedAt:      time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{ServiceID: "svc-cake", Name: "Three-tier cake", Price: 150000, Quantity: 2},
		},
		Subtotal:    300000,
		DiscountOff: 30000,
		Total:       270000,
	}

	body := RenderEmailBody(r)
	assert.Contains(t, body, "Receipt EV-20260829-A1B2C3D4")
	assert.Contains(t, body, "2 x Three-tier cake")
	assert.Contains(t, body, "₦300,000")
	assert.Contains(t, body, "Discount: -₦30,000")
	assert.Contains(t, body, "₦270,000")
}

func TestRenderEmailBody_NoDiscountLineWhenZero(t *testing.T) {
	r := BuildReceipt(orderFixture())
	assert.NotContains(t, RenderEmailBody(r), "Discount:")
}

func TestFormatNaira(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "₦0"},
		{999, "₦999"},
		{1000, "₦1,000"},
		{150000, "₦150,000"},
		{1250000, "₦1,250,000"},
		{20000001, "₦20,000,001"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNaira(tt.amount))
	}
}
