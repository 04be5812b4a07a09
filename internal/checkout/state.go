package checkout

// State names the step a checkout session is in. Transitions are
// explicit; handlers never move a session anywhere Transition does not
// allow.
type State string

const (
	StateSelectingAddress State = "selecting_address"
	StateSelectingPayment State = "selecting_payment"
	StateSubmitting       State = "submitting"
	StateConfirmed        State = "confirmed"
)

// allowed transitions. Payment back to address lets the customer change
// the destination without abandoning the session, and submitting back to
// payment is the recovery path when order creation fails.
var transitions = map[State][]State{
	StateSelectingAddress: {StateSelectingPayment},
	StateSelectingPayment: {StateSelectingAddress, StateSubmitting},
	StateSubmitting:       {StateConfirmed, StateSelectingPayment},
	StateConfirmed:        {},
}

func (s State) canTransition(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves the session to the requested state or reports
// ErrInvalidTransition without touching it.
func (sess *Session) Transition(to State) error {
	if !sess.State.canTransition(to) {
		return ErrInvalidTransition
	}
	sess.State = to
	return nil
}
