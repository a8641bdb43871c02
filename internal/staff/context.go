package staff

import (
	"context"

	"github.com/bekzodm/oshxona/internal/orders"
)

type ctxKey string

const ctxActorKey ctxKey = "actor"

func WithActor(ctx context.Context, a orders.Actor) context.Context {
	return context.WithValue(ctx, ctxActorKey, a)
}

func ActorFromContext(ctx context.Context) (orders.Actor, bool) {
	a, ok := ctx.Value(ctxActorKey).(orders.Actor)
	return a, ok
}
