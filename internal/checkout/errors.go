package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrTimeout             = errors.New("checkout timed out waiting for inventory locks")
	IllegalTransitionError = errors.New("illegal transition of checkout state")
)

// ValidationError reports a client input problem found before anything is
// priced or persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// PersistenceError wraps a database failure during the checkout transaction.
// The caller may retry; nothing was committed.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order persistence failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
