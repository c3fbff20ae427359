package runtime

import (
	"context"

	"github.com/aretw0/silverconnect/pkg/domain"
)

// State is one node of an engine's state graph.
// Implementations hold no per-session data; everything they need lives on the Session.
type State interface {
	Kind() domain.StateKind
	// Successors lists every state Handle may Continue to.
	Successors() []domain.StateKind
	Handle(ctx context.Context, s *domain.Session, in domain.Input) domain.Transition
}

// Reentrant is implemented by states that stay active after a Terminal outcome,
// so the next Step runs them again without an explicit Enter.
type Reentrant interface {
	Reentrant() bool
}

// Mode defines how a machine may be driven.
type Mode int

const (
	// ModeDrain machines have an acyclic graph and may be run to completion.
	ModeDrain Mode = iota
	// ModeStep machines are driven one Step at a time by the caller.
	ModeStep
)

func (m Mode) String() string {
	if m == ModeStep {
		return "step"
	}
	return "drain"
}

func isReentrant(st State) bool {
	r, ok := st.(Reentrant)
	return ok && r.Reentrant()
}
