package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bekzodm/oshxona/internal/menu"
	"github.com/bekzodm/oshxona/internal/orders"
	"github.com/bekzodm/oshxona/internal/staff"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func errBody(msg string) map[string]string { return map[string]string{"error": msg} }

// writeError maps domain errors onto HTTP codes. Every rejection keeps
// its human-readable reason; unknown errors surface as a generic 500.
func writeError(w http.ResponseWriter, err error) {
	var oos *orders.OutOfStockError
	if errors.As(err, &oos) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     oos.Error(),
			"shortages": oos.Shortages,
		})
		return
	}

	switch {
	case errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, orders.ErrProductNotFound),
		errors.Is(err, menu.ErrIngredientNotFound),
		errors.Is(err, menu.ErrProductNotFound),
		errors.Is(err, staff.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errBody(err.Error()))
	case errors.Is(err, orders.ErrEmptyItems),
		errors.Is(err, orders.ErrMissingCustomer),
		errors.Is(err, orders.ErrQuantityInvalid),
		errors.Is(err, orders.ErrReasonRequired),
		errors.Is(err, menu.ErrInvalidUnit),
		errors.Is(err, menu.ErrNegativeStock),
		errors.Is(err, menu.ErrNegativePrice),
		errors.Is(err, menu.ErrQuantityNotPositive),
		errors.Is(err, menu.ErrWholeUnitsOnly),
		errors.Is(err, staff.ErrInvalidRole):
		writeJSON(w, http.StatusBadRequest, errBody(err.Error()))
	case errors.Is(err, orders.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errBody(err.Error()))
	case errors.Is(err, orders.ErrInvalidTransition),
		errors.Is(err, orders.ErrTerminalState),
		errors.Is(err, orders.ErrAlreadyClaimed),
		errors.Is(err, orders.ErrCourierBusy),
		errors.Is(err, orders.ErrNoChefAvailable),
		errors.Is(err, staff.ErrUsernameTaken):
		writeJSON(w, http.StatusConflict, errBody(err.Error()))
	case errors.Is(err, staff.ErrInvalidCredentials), errors.Is(err, staff.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errBody(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errBody("internal error"))
	}
}
