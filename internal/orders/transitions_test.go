package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	chefA    = Actor{ID: "chef-a", Role: RoleChef}
	chefB    = Actor{ID: "chef-b", Role: RoleChef}
	courierA = Actor{ID: "cour-a", Role: RoleCourier}
	courierB = Actor{ID: "cour-b", Role: RoleCourier}
	admin    = Actor{ID: "adm", Role: RoleAdmin}
)

func TestStatus_Terminal(t *testing.T) {
	t.Parallel()

	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	for _, s := range []Status{StatusNew, StatusPreparing, StatusReady, StatusEnRoute, StatusPickedUp} {
		assert.False(t, s.Terminal(), string(s))
	}
}

func TestStatus_ForwardOf(t *testing.T) {
	t.Parallel()

	assert.True(t, StatusPreparing.ForwardOf(StatusNew))
	assert.True(t, StatusDelivered.ForwardOf(StatusNew))
	assert.False(t, StatusNew.ForwardOf(StatusPreparing))
	assert.False(t, StatusNew.ForwardOf(StatusNew))
	assert.False(t, StatusCancelled.ForwardOf(StatusNew))
}

func TestAuthorize_ChefClaimsNewOrder(t *testing.T) {
	t.Parallel()

	o := Order{ID: "o1", Status: StatusNew}
	eff, err := Authorize(chefA, o, StatusPreparing, "")
	require.NoError(t, err)
	assert.Equal(t, chefA.ID, eff.SetChef)

	// second chef is rejected once the first claim is visible
	o.ChefID = chefA.ID
	_, err = Authorize(chefB, o, StatusPreparing, "")
	assert.ErrorIs(t, err, ErrAlreadyClaimed)

	// the claiming chef may retry idempotently
	eff, err = Authorize(chefA, o, StatusPreparing, "")
	require.NoError(t, err)
	assert.Empty(t, eff.SetChef)
}

func TestAuthorize_ChefMarksReady(t *testing.T) {
	t.Parallel()

	o := Order{ID: "o1", Status: StatusPreparing, ChefID: chefA.ID}
	_, err := Authorize(chefA, o, StatusReady, "")
	require.NoError(t, err)

	_, err = Authorize(chefB, o, StatusReady, "")
	assert.ErrorIs(t, err, ErrForbidden)

	// skipping a step is not in the table
	o.Status = StatusNew
	_, err = Authorize(chefA, o, StatusReady, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAuthorize_ChefCancellation(t *testing.T) {
	t.Parallel()

	o := Order{ID: "o1", Status: StatusPreparing, ChefID: chefA.ID, CourierID: courierA.ID}

	_, err := Authorize(chefA, o, StatusCancelled, "")
	assert.ErrorIs(t, err, ErrReasonRequired)

	eff, err := Authorize(chefA, o, StatusCancelled, "out of gas")
	require.NoError(t, err)
	assert.True(t, eff.ClearCourier)
	assert.Equal(t, "out of gas", eff.Reason)

	_, err = Authorize(chefB, o, StatusCancelled, "mine now")
	assert.ErrorIs(t, err, ErrAlreadyClaimed)

	// unclaimed order: the cancelling chef takes the claim
	o2 := Order{ID: "o2", Status: StatusNew}
	eff, err = Authorize(chefB, o2, StatusCancelled, "customer called")
	require.NoError(t, err)
	assert.Equal(t, chefB.ID, eff.SetChef)
}

func TestAuthorize_CourierClaim(t *testing.T) {
	t.Parallel()

	for _, from := range []Status{StatusPreparing, StatusReady} {
		o := Order{ID: "o1", Status: from}
		eff, err := Authorize(courierA, o, StatusEnRoute, "")
		require.NoError(t, err, string(from))
		assert.Equal(t, courierA.ID, eff.SetCourier)
	}

	claimed := Order{ID: "o1", Status: StatusReady, CourierID: courierA.ID}
	_, err := Authorize(courierB, claimed, StatusEnRoute, "")
	assert.ErrorIs(t, err, ErrAlreadyClaimed)

	tooEarly := Order{ID: "o1", Status: StatusNew}
	_, err = Authorize(courierA, tooEarly, StatusEnRoute, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAuthorize_CourierPickupAndDelivery(t *testing.T) {
	t.Parallel()

	for _, from := range []Status{StatusReady, StatusEnRoute} {
		o := Order{ID: "o1", Status: from, CourierID: courierA.ID}
		_, err := Authorize(courierA, o, StatusPickedUp, "")
		require.NoError(t, err, string(from))
	}

	o := Order{ID: "o1", Status: StatusEnRoute, CourierID: courierA.ID}
	_, err := Authorize(courierB, o, StatusPickedUp, "")
	assert.ErrorIs(t, err, ErrForbidden)

	o = Order{ID: "o1", Status: StatusPickedUp, CourierID: courierA.ID}
	_, err = Authorize(courierA, o, StatusDelivered, "")
	require.NoError(t, err)

	o.Status = StatusReady
	_, err = Authorize(courierA, o, StatusDelivered, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAuthorize_CourierCancellation(t *testing.T) {
	t.Parallel()

	o := Order{ID: "o1", Status: StatusPickedUp, CourierID: courierA.ID}
	eff, err := Authorize(courierA, o, StatusCancelled, "address unreachable")
	require.NoError(t, err)
	assert.Equal(t, "address unreachable", eff.Reason)

	_, err = Authorize(courierB, o, StatusCancelled, "why not")
	assert.ErrorIs(t, err, ErrForbidden)

	o.Status = StatusEnRoute
	_, err = Authorize(courierA, o, StatusCancelled, "reason")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorize_AdminForward(t *testing.T) {
	t.Parallel()

	o := Order{ID: "o1", Status: StatusNew}

	eff, err := Authorize(admin, o, StatusPreparing, "")
	require.NoError(t, err)
	assert.True(t, eff.NeedsChef)

	eff, err = Authorize(admin, o, StatusEnRoute, "")
	require.NoError(t, err)
	assert.False(t, eff.NeedsChef)

	// claimed orders are off-limits to the admin shortcut
	claimed := Order{ID: "o1", Status: StatusPreparing, ChefID: chefA.ID}
	_, err = Authorize(admin, claimed, StatusReady, "")
	assert.ErrorIs(t, err, ErrAlreadyClaimed)

	// backwards is not a forward transition
	o.Status = StatusReady
	_, err = Authorize(admin, o, StatusPreparing, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// cancellation is not in the admin row of the table
	_, err = Authorize(admin, o, StatusCancelled, "reason")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorize_TerminalStatesAreImmutable(t *testing.T) {
	t.Parallel()

	actors := []Actor{chefA, courierA, admin}
	for _, terminal := range []Status{StatusDelivered, StatusCancelled} {
		o := Order{ID: "o1", Status: terminal, ChefID: chefA.ID, CourierID: courierA.ID}
		for _, a := range actors {
			for _, target := range []Status{StatusNew, StatusPreparing, StatusDelivered, StatusCancelled} {
				_, err := Authorize(a, o, target, "reason")
				assert.ErrorIs(t, err, ErrTerminalState)
			}
		}
	}
}

func TestAuthorize_UnknownTarget(t *testing.T) {
	t.Parallel()

	o := Order{ID: "o1", Status: StatusNew}
	_, err := Authorize(chefA, o, Status("shipped"), "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
