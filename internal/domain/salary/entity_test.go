package salary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusApproved, StatusPaid, true},
		{StatusPending, StatusPaid, false},
		{StatusPending, StatusPending, false},
		{StatusApproved, StatusPending, false},
		{StatusApproved, StatusApproved, false},
		{StatusPaid, StatusPending, false},
		{StatusPaid, StatusApproved, false},
		{StatusPaid, StatusPaid, false},
		{Status("void"), StatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPaymentMethod_IsValid(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentMethodBankTransfer, PaymentMethodCash, PaymentMethodCheque, PaymentMethodUPI} {
		assert.True(t, m.IsValid(), m)
	}
	assert.False(t, PaymentMethod("crypto").IsValid())
	assert.False(t, PaymentMethod("").IsValid())
}
