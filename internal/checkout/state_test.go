package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_Transition(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		to      State
		allowed bool
	}{
		{"AddressToPayment", StateSelectingAddress, StateSelectingPayment, true},
		{"PaymentBackToAddress", StateSelectingPayment, StateSelectingAddress, true},
		{"PaymentToSubmitting", StateSelectingPayment, StateSubmitting, true},
		{"SubmittingToConfirmed", StateSubmitting, StateConfirmed, true},
		{"SubmittingBackToPayment", StateSubmitting, StateSelectingPayment, true},
		{"AddressSkipsToSubmitting", StateSelectingAddress, StateSubmitting, false},
		{"AddressSkipsToConfirmed", StateSelectingAddress, StateConfirmed, false},
		{"PaymentSkipsToConfirmed", StateSelectingPayment, StateConfirmed, false},
		{"ConfirmedIsTerminal", StateConfirmed, StateSelectingPayment, false},
		{"ConfirmedCannotResubmit", StateConfirmed, StateSubmitting, false},
		{"SubmittingCannotGoToAddress", StateSubmitting, StateSelectingAddress, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &Session{State: tt.from}
			err := sess.Transition(tt.to)

			if tt.allowed {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, sess.State)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, sess.State, "failed transition must not move the session")
			}
		})
	}
}

func TestValidPaymentMethod(t *testing.T) {
	for _, method := range []string{"credit", "ewallet", "bank", "cod"} {
		assert.True(t, ValidPaymentMethod(method), method)
	}

	assert.False(t, ValidPaymentMethod("crypto"))
	assert.False(t, ValidPaymentMethod(""))
	assert.False(t, ValidPaymentMethod("EWALLET"))
}
