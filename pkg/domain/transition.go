package domain

// Outcome is the kind of result a state's Handle produced.
type Outcome int

const (
	// OutcomeContinue advances the machine to Transition.Next.
	OutcomeContinue Outcome = iota
	// OutcomeTerminal ends the machine's progression. Err may carry a business failure.
	OutcomeTerminal
	// OutcomeInvalid keeps the machine on the same state; the caller re-invokes it.
	OutcomeInvalid
)

func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeTerminal:
		return "terminal"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Transition is the result of handling a state.
type Transition struct {
	Outcome Outcome
	// Next is the successor state (only for OutcomeContinue).
	Next StateKind
	// Err is the reason of an Invalid transition, or a business failure on a Terminal one.
	Err error
}

// Continue advances to next.
func Continue(next StateKind) Transition {
	return Transition{Outcome: OutcomeContinue, Next: next}
}

// Terminal ends the machine without error.
func Terminal() Transition {
	return Transition{Outcome: OutcomeTerminal}
}

// TerminalWith ends the machine reporting a structured failure.
func TerminalWith(err error) Transition {
	return Transition{Outcome: OutcomeTerminal, Err: err}
}

// Invalid keeps the machine on the current state.
func Invalid(err error) Transition {
	return Transition{Outcome: OutcomeInvalid, Err: err}
}

// IsTerminal reports whether the transition ended the machine.
func (t Transition) IsTerminal() bool {
	return t.Outcome == OutcomeTerminal
}

// IsInvalid reports whether the transition asks for a re-dispatch.
func (t Transition) IsInvalid() bool {
	return t.Outcome == OutcomeInvalid
}

// Succeeded reports whether the transition carries no failure.
func (t Transition) Succeeded() bool {
	return t.Err == nil && t.Outcome != OutcomeInvalid
}
