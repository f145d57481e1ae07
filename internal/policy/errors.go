package policy

import (
	"errors"
	"fmt"
)

var (
	ErrPolicyTimeout = errors.New("policy_timeout")
	ErrNoDecision    = errors.New("policy_no_decision")
)

// TransportError wraps a failed call to the decision source.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("policy_transport: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("policy_transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
