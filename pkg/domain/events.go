package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStateEnter EventType = "state_enter"
	EventTransition EventType = "transition"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Engine    string    `json:"engine"`
	SessionID string    `json:"session_id"`
	Username  string    `json:"username"`
}

// StateEvent represents entry into a state's Handle.
type StateEvent struct {
	EventBase
	State StateKind `json:"state"`
}

// TransitionEvent represents the transition applied after a Handle.
type TransitionEvent struct {
	EventBase
	From    StateKind `json:"from"`
	To      StateKind `json:"to"`
	Outcome Outcome   `json:"outcome"`
	Rule    string    `json:"rule,omitempty"`
	Reason  string    `json:"reason,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStateEnter func(context.Context, *StateEvent)
	OnTransition func(context.Context, *TransitionEvent)
}

// ChainHooks combines several hook sets; each callback runs in order.
func ChainHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStateEnter: func(ctx context.Context, e *StateEvent) {
			for _, h := range hooks {
				if h.OnStateEnter != nil {
					h.OnStateEnter(ctx, e)
				}
			}
		},
		OnTransition: func(ctx context.Context, e *TransitionEvent) {
			for _, h := range hooks {
				if h.OnTransition != nil {
					h.OnTransition(ctx, e)
				}
			}
		},
	}
}
