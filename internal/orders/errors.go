package orders

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyItems        = errors.New("order has no items")
	ErrMissingCustomer   = errors.New("customer name and phone are required")
	ErrQuantityInvalid   = errors.New("quantity must be > 0")
	ErrProductNotFound   = errors.New("product not found")
	ErrReasonRequired    = errors.New("cancellation requires a reason")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("transition not permitted for this actor")
	ErrTerminalState     = errors.New("order is in a terminal state")
	ErrAlreadyClaimed    = errors.New("order no longer available: claimed by another actor")
	ErrCourierBusy       = errors.New("courier already has the maximum number of active orders")
	ErrNoChefAvailable   = errors.New("no available chef to assign")
)

// Shortage describes one cart line that failed the stock check.
type Shortage struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// OutOfStockError rejects the whole order: nothing is reserved when any
// line is short.
type OutOfStockError struct {
	Shortages []Shortage
}

func (e *OutOfStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s: requested %d, available %d", s.Name, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}
