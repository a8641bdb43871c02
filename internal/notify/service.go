package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/bekzodm/oshxona/internal/kafka"
	"github.com/bekzodm/oshxona/internal/orders"
	"github.com/bekzodm/oshxona/internal/redisx"
)

type Service struct {
	Redis       *redis.Client
	Sender      Sender
	Log         *zap.Logger
	ServiceName string
}

// HandleNotification is the consumer handler for the customer-notify
// topic. Dedup is keyed by event_id so redeliveries send nothing twice.
// Sender failures are logged and swallowed: delivery is best-effort and
// must never wedge the consumer group.
func (s *Service) HandleNotification(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		s.Log.Warn("bad notification event", zap.Error(err))
		return nil
	}
	if env.EventType != orders.EventCustomerNotify {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	owned, err := redisx.SetNX(ctx, s.Redis, dkey, redisx.TTLDedup)
	if err != nil {
		return err // redis down: leave the offset uncommitted, retry later
	}
	if !owned {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.CustomerNotifyPayload](env.Payload)
	if err != nil {
		s.Log.Warn("bad notification payload", zap.Error(err))
		return nil
	}

	if err := s.Sender.SendCustomerNotification(ctx, p.Phone, BuildText(p)); err != nil {
		s.Log.Error("send customer notification",
			zap.String("order_id", p.OrderID), zap.Error(err))
	}
	return nil
}
