// Package realtime keeps an in-memory snapshot of orders reconciled
// from the change feed, so read paths never re-query Postgres per event.
package realtime

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/bekzodm/oshxona/internal/kafka"
	"github.com/bekzodm/oshxona/internal/orders"
)

// OnChange observes reconciled records. eventType is the envelope's
// event type (OrderPlaced / OrderUpdated).
type OnChange func(eventType string, o orders.Order)

type Store struct {
	log *zap.Logger

	mu   sync.RWMutex
	byID map[string]orders.Order
	subs []OnChange
}

func NewStore(log *zap.Logger) *Store {
	return &Store{log: log, byID: make(map[string]orders.Order)}
}

// Prime seeds the snapshot from an initial DB read. Events arriving
// afterwards win over primed records.
func (s *Store) Prime(list []orders.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range list {
		if existing, ok := s.byID[o.ID]; ok && existing.UpdatedAt.After(o.UpdatedAt) {
			continue
		}
		s.byID[o.ID] = o
	}
}

// Subscribe registers an observer for subsequent changes.
func (s *Store) Subscribe(fn OnChange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) Get(id string) (orders.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byID[id]
	return o, ok
}

// Snapshot returns every known order, newest first.
func (s *Store) Snapshot() []orders.Order {
	s.mu.RLock()
	out := make([]orders.Order, 0, len(s.byID))
	for _, o := range s.byID {
		out = append(out, o)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Apply reconciles one change event into the snapshot.
func (s *Store) Apply(env orders.Envelope) error {
	switch env.EventType {
	case orders.EventOrderPlaced, orders.EventOrderUpdated:
	default:
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderChangedPayload](env.Payload)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if existing, ok := s.byID[p.Order.ID]; ok && existing.UpdatedAt.After(p.Order.UpdatedAt) {
		// stale event replayed out of order
		s.mu.Unlock()
		return nil
	}
	s.byID[p.Order.ID] = p.Order
	subs := make([]OnChange, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(env.EventType, p.Order)
	}
	return nil
}

// HandleMessage plugs the store into a kafka consumer.
func (s *Store) HandleMessage(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		s.log.Warn("bad change event", zap.Error(err))
		return nil // poison message, do not redeliver
	}
	return s.Apply(env)
}
