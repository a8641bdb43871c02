package orders

import "time"

type DeliveryOption string

const (
	DeliveryCourier DeliveryOption = "delivery"
	DeliveryPickup  DeliveryOption = "pickup"
)

type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Item struct {
	ProductID  string `json:"id"`
	Name       string `json:"name"`
	PriceCents int    `json:"price"`
	Qty        int    `json:"quantity"`
}

// Order is the aggregate root. It is created once at submission and
// mutated only through lifecycle transitions. chef_id / curier_id are
// claims: empty means unassigned.
type Order struct {
	ID                 string         `json:"id"`
	ExternalID         string         `json:"external_id"`
	Customer           CustomerInfo   `json:"customer_info"`
	Items              []Item         `json:"items"`
	Location           string         `json:"location"`
	Lat                *float64       `json:"lat,omitempty"`
	Lng                *float64       `json:"lng,omitempty"`
	TotalCents         int            `json:"total_price"`
	Status             Status         `json:"status"`
	ChefID             string         `json:"chef_id,omitempty"`
	CourierID          string         `json:"curier_id,omitempty"`
	CancellationReason string         `json:"cancellation_reason,omitempty"`
	DeliveryOption     DeliveryOption `json:"delivery_option"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleChef    Role = "chef"
	RoleCourier Role = "courier"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleChef, RoleCourier:
		return true
	}
	return false
}

// Actor is an authenticated staff member driving a transition.
type Actor struct {
	ID   string
	Role Role
}
