package orders

type Status string

const (
	StatusNew       Status = "new"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusEnRoute   Status = "en_route_to_kitchen"
	StatusPickedUp  Status = "picked_up_from_kitchen"
	StatusDelivered Status = "delivered_to_customer"
	StatusCancelled Status = "cancelled"
)

// chain is the forward path of an order; cancelled branches off every
// non-terminal state.
var chain = []Status{StatusNew, StatusPreparing, StatusReady, StatusEnRoute, StatusPickedUp, StatusDelivered}

func (s Status) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	return s.index() >= 0
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s Status) index() int {
	for i, c := range chain {
		if c == s {
			return i
		}
	}
	return -1
}

// ForwardOf reports whether to lies strictly ahead of from on the chain.
func (to Status) ForwardOf(from Status) bool {
	i, j := from.index(), to.index()
	return i >= 0 && j >= 0 && j > i
}
