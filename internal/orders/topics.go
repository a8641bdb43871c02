package orders

const (
	TopicOrderChanges  = "oshxona.order.changes"
	TopicNotifications = "oshxona.customer.notify"
)

// Partition key = order_id so every event of one order stays ordered.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
