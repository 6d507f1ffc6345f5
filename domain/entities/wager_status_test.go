package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWagerStatus_IsTerminal(t *testing.T) {
	assert.False(t, WagerStatusPending.IsTerminal())
	for _, status := range []WagerStatus{WagerStatusWon, WagerStatusLost, WagerStatusPush, WagerStatusVoid} {
		assert.True(t, status.IsTerminal(), status)
	}
}

func TestTransactionTypeForStatus(t *testing.T) {
	tests := []struct {
		status WagerStatus
		want   TransactionType
		refund bool
	}{
		{WagerStatusWon, TransactionTypeWagerWon, false},
		{WagerStatusLost, TransactionTypeWagerLost, false},
		{WagerStatusPush, TransactionTypeWagerPush, true},
		{WagerStatusVoid, TransactionTypeWagerVoid, true},
		{WagerStatusPending, TransactionTypeWagerPlaced, false},
	}

	for _, tt := range tests {
		got := TransactionTypeForStatus(tt.status)
		assert.Equal(t, tt.want, got, tt.status)
		assert.Equal(t, tt.refund, got.IsRefund(), tt.status)
	}
}

func TestOddsHistory_Movement(t *testing.T) {
	spread := &OddsHistory{OldValue: units("-3"), NewValue: units("-3.5")}
	assert.True(t, spread.Movement().Equal(units("-0.5")))

	future := &OddsHistory{OldValue: units("500"), NewValue: units("440")}
	assert.True(t, future.Movement().Equal(units("-60")))
}
