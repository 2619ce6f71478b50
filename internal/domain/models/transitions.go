package models

// Guard is a per-edge precondition checked before a transition is applied.
// It returns the name of the unmet condition, or "" when satisfied.
type Guard func(t Trip) string

// Transition is a single allowed edge in the trip lifecycle.
type Transition struct {
	From  TripStatus
	To    TripStatus
	Guard Guard
}

func deliveredAtSet(t Trip) string {
	if t.DeliveredAt == nil {
		return "delivered_at not set"
	}
	return ""
}

// transitionTable is the full set of legal status edges. Paid and Canceled
// have no outgoing edges, which is what makes them terminal; the workflow
// service has no special case for terminal states.
var transitionTable = []Transition{
	{From: StatusScheduled, To: StatusPickedUp},
	{From: StatusPickedUp, To: StatusInTransit},
	{From: StatusInTransit, To: StatusDelivered},

	// Payment path: review first, or straight to paid for cash carriers.
	{From: StatusDelivered, To: StatusWaitingReview},
	{From: StatusDelivered, To: StatusPaid},
	{From: StatusWaitingReview, To: StatusReadyToPay, Guard: deliveredAtSet},
	{From: StatusReadyToPay, To: StatusPaid},

	// Cancellation from every non-terminal state.
	{From: StatusScheduled, To: StatusCanceled},
	{From: StatusPickedUp, To: StatusCanceled},
	{From: StatusInTransit, To: StatusCanceled},
	{From: StatusDelivered, To: StatusCanceled},
	{From: StatusWaitingReview, To: StatusCanceled},
	{From: StatusReadyToPay, To: StatusCanceled},
}

// TransitionFor returns the edge (from -> to) when it exists in the table.
func TransitionFor(from, to TripStatus) (Transition, bool) {
	for _, tr := range transitionTable {
		if tr.From == from && tr.To == to {
			return tr, true
		}
	}
	return Transition{}, false
}

// TransitionsFrom lists the targets reachable in one step from a state.
func TransitionsFrom(from TripStatus) []TripStatus {
	out := []TripStatus{}
	for _, tr := range transitionTable {
		if tr.From == from {
			out = append(out, tr.To)
		}
	}
	return out
}

// IsTerminal reports whether a state has no outgoing edges.
func IsTerminal(s TripStatus) bool {
	return len(TransitionsFrom(s)) == 0
}
