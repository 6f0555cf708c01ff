package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo_HappyPath(t *testing.T) {
	path := []CheckoutState{
		CheckoutStateValidating,
		CheckoutStatePricing,
		CheckoutStateReserving,
		CheckoutStatePersisted,
		CheckoutStateReceiptPending,
		CheckoutStateNotifyPending,
		CheckoutStateCompleted,
	}

	for i := 0; i < len(path)-1; i++ {
		assert.True(t, CanTransitionTo(path[i], path[i+1]),
			"%s -> %s should be allowed", path[i], path[i+1])
	}
}

func TestCanTransitionTo_FailureOnlyBeforePersist(t *testing.T) {
	assert.True(t, CanTransitionTo(CheckoutStateValidating, CheckoutStateFailed))
	assert.True(t, CanTransitionTo(CheckoutStatePricing, CheckoutStateFailed))
	assert.True(t, CanTransitionTo(CheckoutStateReserving, CheckoutStateFailed))

	// once persisted, the order stands no matter what the side effects do
	assert.False(t, CanTransitionTo(CheckoutStatePersisted, CheckoutStateFailed))
	assert.False(t, CanTransitionTo(CheckoutStateReceiptPending, CheckoutStateFailed))
	assert.False(t, CanTransitionTo(CheckoutStateNotifyPending, CheckoutStateFailed))
}

func TestCanTransitionTo_NoSkippingStates(t *testing.T) {
	assert.False(t, CanTransitionTo(CheckoutStateValidating, CheckoutStatePersisted))
	assert.False(t, CanTransitionTo(CheckoutStateCompleted, CheckoutStateValidating))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, CheckoutStateCompleted.IsTerminal())
	assert.True(t, CheckoutStateFailed.IsTerminal())
	assert.False(t, CheckoutStateReserving.IsTerminal())
}
