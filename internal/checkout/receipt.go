package checkout

import (
	"fmt"
	"strings"
	"time"

	"evently/internal/models"
)

// BuildReceipt renders the customer-facing receipt for an order.
func BuildReceipt(order *models.Order) *models.Receipt {
	issued := time.Now().UTC()
	return &models.Receipt{
		ReceiptNumber: receiptNumber(order.ID, issued),
		OrderID:       order.ID,
		IssuedAt:      issued,
		Items:         order.Items,
		Subtotal:      order.Subtotal,
		DiscountOff:   order.DiscountOff,
		Total:         order.Total,
	}
}

// receiptNumber is EV-YYYYMMDD-<first order id segment>, readable
// enough to quote over the phone.
func receiptNumber(orderID string, issued time.Time) string {
	segment := orderID
	if i := strings.IndexByte(orderID, '-'); i > 0 {
		segment = orderID[:i]
	}
	return fmt.Sprintf("EV-%s-%s", issued.Format("20060102"), strings.ToUpper(segment))
}

// RenderEmailBody produces the plain-text email for a receipt.
func RenderEmailBody(r *models.Receipt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Receipt %s\n", r.ReceiptNumber)
	fmt.Fprintf(&b, "Order %s, issued %s\n\n", r.OrderID, r.IssuedAt.Format("2 Jan 2006 15:04 MST"))

	for _, item := range r.Items {
		fmt.Fprintf(&b, "  %d x %s — %s\n", item.Quantity, item.Name, formatNaira(item.Price*int64(item.Quantity)))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", formatNaira(r.Subtotal))
	if r.DiscountOff > 0 {
		fmt.Fprintf(&b, "Discount: -%s\n", formatNaira(r.DiscountOff))
	}
	fmt.Fprintf(&b, "Total:    %s\n\nThank you for planning with us!\n", formatNaira(r.Total))
	return b.String()
}

// RenderSMSBody produces the short confirmation text.
func RenderSMSBody(r *models.Receipt) string {
	return fmt.Sprintf("Your order is confirmed! Receipt %s, total %s.", r.ReceiptNumber, formatNaira(r.Total))
}

// formatNaira renders an amount with thousands separators, e.g.
// ₦1,250,000.
func formatNaira(amount int64) string {
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	b.WriteString("₦")
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}
