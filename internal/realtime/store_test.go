package realtime

import (
	"context"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	kafkax "github.com/bekzodm/oshxona/internal/kafka"
	"github.com/bekzodm/oshxona/internal/orders"
)

func envelopeFor(eventType string, o orders.Order) orders.Envelope {
	return orders.Envelope{
		EventID:       "ev-" + o.ID,
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		CorrelationID: o.ID,
		Payload:       kafkax.MustMarshal(orders.OrderChangedPayload{Order: o}),
	}
}

func TestStore_PrimeAndSnapshot(t *testing.T) {
	t.Parallel()

	s := NewStore(zap.NewNop())
	older := orders.Order{ID: "o1", CreatedAt: time.Now().Add(-time.Hour)}
	newer := orders.Order{ID: "o2", CreatedAt: time.Now()}
	s.Prime([]orders.Order{older, newer})

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "o2", snap[0].ID, "newest first")
	assert.Equal(t, "o1", snap[1].ID)
}

func TestStore_ApplyReconcilesWithoutRefetch(t *testing.T) {
	t.Parallel()

	s := NewStore(zap.NewNop())

	placed := orders.Order{ID: "o1", Status: orders.StatusNew, UpdatedAt: time.Now()}
	require.NoError(t, s.Apply(envelopeFor(orders.EventOrderPlaced, placed)))

	got, ok := s.Get("o1")
	require.True(t, ok)
	assert.Equal(t, orders.StatusNew, got.Status)

	updated := placed
	updated.Status = orders.StatusPreparing
	updated.ChefID = "chef-a"
	updated.UpdatedAt = placed.UpdatedAt.Add(time.Second)
	require.NoError(t, s.Apply(envelopeFor(orders.EventOrderUpdated, updated)))

	got, _ = s.Get("o1")
	assert.Equal(t, orders.StatusPreparing, got.Status)
	assert.Equal(t, "chef-a", got.ChefID)
}

func TestStore_StaleEventIgnored(t *testing.T) {
	t.Parallel()

	s := NewStore(zap.NewNop())
	now := time.Now()

	current := orders.Order{ID: "o1", Status: orders.StatusReady, UpdatedAt: now}
	require.NoError(t, s.Apply(envelopeFor(orders.EventOrderUpdated, current)))

	stale := orders.Order{ID: "o1", Status: orders.StatusNew, UpdatedAt: now.Add(-time.Minute)}
	require.NoError(t, s.Apply(envelopeFor(orders.EventOrderUpdated, stale)))

	got, _ := s.Get("o1")
	assert.Equal(t, orders.StatusReady, got.Status, "replayed stale event must not regress the snapshot")
}

func TestStore_SubscriberObservesChanges(t *testing.T) {
	t.Parallel()

	s := NewStore(zap.NewNop())

	var seen []string
	s.Subscribe(func(eventType string, o orders.Order) {
		seen = append(seen, eventType+":"+o.ID)
	})

	o := orders.Order{ID: "o1", UpdatedAt: time.Now()}
	require.NoError(t, s.Apply(envelopeFor(orders.EventOrderPlaced, o)))
	assert.Equal(t, []string{orders.EventOrderPlaced + ":o1"}, seen)
}

func TestStore_IgnoresForeignAndMalformedEvents(t *testing.T) {
	t.Parallel()

	s := NewStore(zap.NewNop())

	env := envelopeFor("SomethingElse", orders.Order{ID: "o1"})
	require.NoError(t, s.Apply(env))
	_, ok := s.Get("o1")
	assert.False(t, ok)

	// malformed message: swallowed, never redelivered forever
	err := s.HandleMessage(context.Background(), kafkago.Message{Value: []byte("{not json")})
	assert.NoError(t, err)
}
