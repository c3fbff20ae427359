package runtime

import (
	"errors"
	"fmt"

	"github.com/aretw0/silverconnect/pkg/domain"
)

var (
	// ErrNoActiveState is returned by Step when the session is idle.
	ErrNoActiveState = errors.New("session has no active state")
	// ErrUnknownState is returned when a kind is not part of the machine.
	ErrUnknownState = errors.New("unknown state")
	// ErrSelfTransition is returned when a state continues to itself.
	ErrSelfTransition = errors.New("state continued to itself")
	// ErrDrainUnsupported is returned by RunToCompletion on step-mode machines.
	ErrDrainUnsupported = errors.New("machine does not support run to completion")
	// ErrStepLimit is returned when a drain exceeds the number of states.
	ErrStepLimit = errors.New("step limit exceeded")
)

// GraphError describes a structural problem found while building a machine.
type GraphError struct {
	Machine string
	State   domain.StateKind
	Reason  string
}

func (e *GraphError) Error() string {
	if e.State == domain.Idle {
		return fmt.Sprintf("machine '%s': %s", e.Machine, e.Reason)
	}
	return fmt.Sprintf("machine '%s' state '%s': %s", e.Machine, e.State, e.Reason)
}
