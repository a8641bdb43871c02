package redisx

import "time"

const (
	// Idempotent order submission: idem:order:submit:{external_id} -> order_id
	KeyIdemOrderSubmit = "idem:order:submit:%s"

	// Order status cache: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
