package notify

import (
	"fmt"
	"strings"

	"github.com/bekzodm/oshxona/internal/orders"
)

// BuildText renders the customer message for a terminal order state.
func BuildText(p orders.CustomerNotifyPayload) string {
	var b strings.Builder
	switch p.Status {
	case orders.StatusDelivered:
		b.WriteString("Your order has been delivered. Enjoy!\n")
	case orders.StatusCancelled:
		b.WriteString("Your order was cancelled.\n")
		if p.Reason != "" {
			fmt.Fprintf(&b, "Reason: %s\n", p.Reason)
		}
	default:
		fmt.Fprintf(&b, "Your order is now %s.\n", p.Status)
	}

	if len(p.Items) > 0 {
		b.WriteString("Items:")
		for _, it := range p.Items {
			fmt.Fprintf(&b, "\n- %s x%d", it.Name, it.Qty)
		}
	}
	return b.String()
}
