package domain

type CheckoutState string

const (
	CheckoutStateValidating     CheckoutState = "VALIDATING"
	CheckoutStatePricing        CheckoutState = "PRICING"
	CheckoutStateReserving      CheckoutState = "RESERVING"
	CheckoutStatePersisted      CheckoutState = "PERSISTED"
	CheckoutStateReceiptPending CheckoutState = "RECEIPT_PENDING"
	CheckoutStateNotifyPending  CheckoutState = "NOTIFY_PENDING"
	CheckoutStateCompleted      CheckoutState = "COMPLETED"
	CheckoutStateFailed         CheckoutState = "FAILED"
)

func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateCompleted || s == CheckoutStateFailed
}

// String representation (for logging)
func (s CheckoutState) String() string {
	return string(s)
}

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutStateValidating:     {CheckoutStatePricing, CheckoutStateFailed},
	CheckoutStatePricing:        {CheckoutStateReserving, CheckoutStateFailed},
	CheckoutStateReserving:      {CheckoutStatePersisted, CheckoutStateFailed},
	CheckoutStatePersisted:      {CheckoutStateReceiptPending},
	CheckoutStateReceiptPending: {CheckoutStateNotifyPending},
	CheckoutStateNotifyPending:  {CheckoutStateCompleted},
}

// CanTransitionTo reports whether the checkout state machine allows moving
// from one state to the next. Once the order is persisted the only reachable
// terminal state is Completed; receipt and notification failures do not fail
// the checkout.
func CanTransitionTo(from, to CheckoutState) bool {
	for _, allowed := range checkoutTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
