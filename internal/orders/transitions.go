package orders

// Effect is the mutation a permitted transition applies alongside the
// status change. Zero value means status only.
type Effect struct {
	SetChef      string // claim chef_id
	SetCourier   string // claim curier_id
	ClearCourier bool   // chef-initiated cancellation releases the courier
	Reason       string // required for cancellation
	NeedsChef    bool   // admin path: assign first available chef before applying
}

// MaxActiveCourierOrders caps how many orders a courier may hold in
// en_route_to_kitchen / picked_up_from_kitchen at once.
const MaxActiveCourierOrders = 2

// Authorize evaluates the role-gated transition table against the
// order as last observed. It performs no mutation; the returned Effect
// is applied by the store under an optimistic predicate on the same
// observed fields.
func Authorize(actor Actor, o Order, target Status, reason string) (Effect, error) {
	if !target.Valid() {
		return Effect{}, ErrInvalidTransition
	}
	if o.Status.Terminal() {
		return Effect{}, ErrTerminalState
	}

	if target == StatusCancelled {
		return authorizeCancel(actor, o, reason)
	}

	switch actor.Role {
	case RoleChef:
		return authorizeChef(actor, o, target)
	case RoleCourier:
		return authorizeCourier(actor, o, target)
	case RoleAdmin:
		return authorizeAdmin(o, target)
	}
	return Effect{}, ErrForbidden
}

func authorizeCancel(actor Actor, o Order, reason string) (Effect, error) {
	if reason == "" {
		return Effect{}, ErrReasonRequired
	}
	switch actor.Role {
	case RoleChef:
		if o.ChefID != "" && o.ChefID != actor.ID {
			return Effect{}, ErrAlreadyClaimed
		}
		eff := Effect{Reason: reason, ClearCourier: true}
		if o.ChefID == "" {
			eff.SetChef = actor.ID
		}
		return eff, nil
	case RoleCourier:
		if o.CourierID != actor.ID || o.Status != StatusPickedUp {
			return Effect{}, ErrForbidden
		}
		return Effect{Reason: reason}, nil
	}
	return Effect{}, ErrForbidden
}

func authorizeChef(actor Actor, o Order, target Status) (Effect, error) {
	switch {
	case o.Status == StatusNew && target == StatusPreparing:
		if o.ChefID != "" && o.ChefID != actor.ID {
			return Effect{}, ErrAlreadyClaimed
		}
		eff := Effect{}
		if o.ChefID == "" {
			eff.SetChef = actor.ID
		}
		return eff, nil
	case o.Status == StatusPreparing && target == StatusReady:
		if o.ChefID != actor.ID {
			return Effect{}, ErrForbidden
		}
		return Effect{}, nil
	}
	return Effect{}, ErrInvalidTransition
}

func authorizeCourier(actor Actor, o Order, target Status) (Effect, error) {
	switch target {
	case StatusEnRoute:
		// the claim: first courier to commit wins
		if o.Status != StatusPreparing && o.Status != StatusReady {
			return Effect{}, ErrInvalidTransition
		}
		if o.CourierID != "" {
			return Effect{}, ErrAlreadyClaimed
		}
		return Effect{SetCourier: actor.ID}, nil
	case StatusPickedUp:
		if o.CourierID != actor.ID {
			return Effect{}, ErrForbidden
		}
		if o.Status != StatusReady && o.Status != StatusEnRoute {
			return Effect{}, ErrInvalidTransition
		}
		return Effect{}, nil
	case StatusDelivered:
		if o.CourierID != actor.ID {
			return Effect{}, ErrForbidden
		}
		if o.Status != StatusPickedUp {
			return Effect{}, ErrInvalidTransition
		}
		return Effect{}, nil
	}
	return Effect{}, ErrInvalidTransition
}

// Admin may advance only orders nobody has claimed yet, any number of
// steps forward. Kitchen states need a chef on the order, so the first
// available one is assigned.
func authorizeAdmin(o Order, target Status) (Effect, error) {
	if o.ChefID != "" || o.CourierID != "" {
		return Effect{}, ErrAlreadyClaimed
	}
	if !target.ForwardOf(o.Status) {
		return Effect{}, ErrInvalidTransition
	}
	eff := Effect{}
	if target == StatusPreparing || target == StatusReady {
		eff.NeedsChef = true
	}
	return eff, nil
}
