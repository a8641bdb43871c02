package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bekzodm/oshxona/internal/orders"
)

func TestBuildText_Delivered(t *testing.T) {
	t.Parallel()

	text := BuildText(orders.CustomerNotifyPayload{
		OrderID: "o1",
		Status:  orders.StatusDelivered,
		Items: []orders.Item{
			{Name: "Hotdog", Qty: 2},
			{Name: "Cola", Qty: 1},
		},
	})

	assert.Contains(t, text, "delivered")
	assert.Contains(t, text, "Hotdog x2")
	assert.Contains(t, text, "Cola x1")
}

func TestBuildText_CancelledWithReason(t *testing.T) {
	t.Parallel()

	text := BuildText(orders.CustomerNotifyPayload{
		OrderID: "o1",
		Status:  orders.StatusCancelled,
		Reason:  "ran out of buns",
		Items:   []orders.Item{{Name: "Hotdog", Qty: 1}},
	})

	assert.Contains(t, text, "cancelled")
	assert.Contains(t, text, "ran out of buns")
	assert.Contains(t, text, "Hotdog x1")
}

func TestBuildText_CancelledWithoutReason(t *testing.T) {
	t.Parallel()

	text := BuildText(orders.CustomerNotifyPayload{
		OrderID: "o1",
		Status:  orders.StatusCancelled,
	})

	assert.Contains(t, text, "cancelled")
	assert.NotContains(t, text, "Reason:")
}
