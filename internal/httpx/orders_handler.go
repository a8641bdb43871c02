package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/bekzodm/oshxona/internal/orders"
	"github.com/bekzodm/oshxona/internal/realtime"
	"github.com/bekzodm/oshxona/internal/redisx"
	"github.com/bekzodm/oshxona/internal/staff"
)

type OrdersHandler struct {
	Service *orders.Service
	Board   *realtime.Store
	Redis   *redis.Client
}

type SubmitResp struct {
	OrderID    string        `json:"order_id"`
	TotalCents int           `json:"total_cents"`
	Status     orders.Status `json:"status"`
	Idempotent bool          `json:"idempotent"`
}

type transitionReq struct {
	Status orders.Status `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

func (h *OrdersHandler) Register(r *chi.Mux, auth *Auth) {
	r.Post("/orders", h.submitOrder)
	r.Get("/orders/{id}", h.getOrder)

	r.Group(func(r chi.Router) {
		r.Use(auth.Require(orders.RoleAdmin, orders.RoleChef, orders.RoleCourier))
		r.Get("/staff/orders", h.listBoard)
		r.Post("/staff/orders/{id}/status", h.advanceOrder)
	})
}

func (h *OrdersHandler) submitOrder(w http.ResponseWriter, r *http.Request) {
	var req orders.SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid json"))
		return
	}
	if req.ExternalID == "" {
		writeJSON(w, http.StatusBadRequest, errBody("external_id is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// fast-path idempotency; the DB unique constraint stays the truth
	idemKey := fmt.Sprintf(redisx.KeyIdemOrderSubmit, req.ExternalID)
	if id, err := h.Redis.Get(ctx, idemKey).Result(); err == nil && id != "" {
		if o, err := h.Service.Store.GetOrder(ctx, id); err == nil {
			writeJSON(w, http.StatusOK, SubmitResp{OrderID: o.ID, TotalCents: o.TotalCents, Status: o.Status, Idempotent: true})
			return
		}
	}

	o, existed, err := h.Service.Submit(ctx, req, r.Header.Get("X-Request-Id"))
	if err != nil {
		writeError(w, err)
		return
	}

	_ = h.Redis.Set(ctx, idemKey, o.ID, redisx.TTLIdempotency).Err()
	h.cacheStatus(ctx, o)

	code := http.StatusAccepted
	if existed {
		code = http.StatusOK
	}
	writeJSON(w, code, SubmitResp{OrderID: o.ID, TotalCents: o.TotalCents, Status: o.Status, Idempotent: existed})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeJSON(w, http.StatusBadRequest, errBody("missing id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	o, err := h.Service.Store.GetOrder(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	b := h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusOK, json.RawMessage(b))
}

func (h *OrdersHandler) cacheStatus(ctx context.Context, o orders.Order) []byte {
	b, _ := json.Marshal(map[string]any{"order_id": o.ID, "status": o.Status})
	key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	return b
}

// listBoard serves the staff dashboard from the realtime snapshot, no
// DB roundtrip per request.
func (h *OrdersHandler) listBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Board.Snapshot())
}

func (h *OrdersHandler) advanceOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := staff.ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errBody("no actor"))
		return
	}
	orderID := chi.URLParam(r, "id")

	var req transitionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid json"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Service.Advance(ctx, actor, orderID, req.Status, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusOK, o)
}
