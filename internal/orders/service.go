package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/bekzodm/oshxona/internal/kafka"
)

// Store is what the lifecycle needs from persistence.
type Store interface {
	GetOrder(ctx context.Context, id string) (Order, error)
	Submit(ctx context.Context, in SubmitInput) (Order, bool, error)
	ApplyTransition(ctx context.Context, prev Order, target Status, eff Effect) (Order, error)
	FirstAvailableChef(ctx context.Context) (string, error)
}

// Publisher is the async event sink; kafka producers satisfy it.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Service struct {
	Store   Store
	Changes Publisher // order change feed
	Notify  Publisher // customer notifications
	Log     *zap.Logger
	Name    string

	now func() time.Time
}

func NewService(store Store, changes, notify Publisher, log *zap.Logger, name string) *Service {
	return &Service{Store: store, Changes: changes, Notify: notify, Log: log, Name: name, now: time.Now}
}

// Submit validates the cart and places the order. All-or-nothing: a
// single short line rejects the whole submission with no reservation.
func (s *Service) Submit(ctx context.Context, in SubmitInput, traceID string) (Order, bool, error) {
	if in.Customer.Name == "" || in.Customer.Phone == "" {
		return Order{}, false, ErrMissingCustomer
	}
	if len(in.Items) == 0 {
		return Order{}, false, ErrEmptyItems
	}
	for _, it := range in.Items {
		if it.Qty <= 0 {
			return Order{}, false, ErrQuantityInvalid
		}
	}

	o, existed, err := s.Store.Submit(ctx, in)
	if err != nil {
		return Order{}, false, err
	}
	if !existed {
		s.publishChange(EventOrderPlaced, o, traceID)
	}
	return o, existed, nil
}

// Advance drives one transition through the authorization table and the
// store's conditional update. Terminal customer-facing states trigger a
// notification after commit.
func (s *Service) Advance(ctx context.Context, actor Actor, orderID string, target Status, reason string) (Order, error) {
	o, err := s.Store.GetOrder(ctx, orderID)
	if err != nil {
		return Order{}, err
	}

	eff, err := Authorize(actor, o, target, reason)
	if err != nil {
		return Order{}, err
	}
	if eff.NeedsChef && o.ChefID == "" {
		chef, err := s.Store.FirstAvailableChef(ctx)
		if err != nil {
			return Order{}, err
		}
		eff.SetChef = chef
	}

	updated, err := s.Store.ApplyTransition(ctx, o, target, eff)
	if err != nil {
		return Order{}, err
	}

	s.publishChange(EventOrderUpdated, updated, "")

	if target == StatusDelivered || target == StatusCancelled {
		s.publishNotify(updated)
	}
	return updated, nil
}

func (s *Service) publishChange(eventType string, o Order, traceID string) {
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    s.now().UTC(),
		Producer:      s.Name,
		TraceID:       traceID,
		CorrelationID: o.ID,
		Payload:       kafkax.MustMarshal(OrderChangedPayload{Order: o}),
	}
	s.Changes.Publish(PartitionKey(o.ID), kafkax.MustMarshal(env),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// publishNotify is best-effort: the transition is already committed and
// a messaging failure must not undo it.
func (s *Service) publishNotify(o Order) {
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventCustomerNotify,
		EventVersion:  1,
		OccurredAt:    s.now().UTC(),
		Producer:      s.Name,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(CustomerNotifyPayload{
			OrderID: o.ID,
			Phone:   o.Customer.Phone,
			Status:  o.Status,
			Items:   o.Items,
			Reason:  o.CancellationReason,
		}),
	}
	s.Notify.Publish(PartitionKey(o.ID), kafkax.MustMarshal(env),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventCustomerNotify)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	s.Log.Info("customer notification queued",
		zap.String("order_id", o.ID), zap.String("status", string(o.Status)))
}
