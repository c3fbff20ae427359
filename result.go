package silverconnect

import (
	"errors"

	"github.com/aretw0/silverconnect/pkg/domain"
)

// Result is the outcome of a platform operation. Failures are values: Err carries the
// classified cause and Message its localized description.
type Result struct {
	Success bool
	Message string
	Data    any
	Err     error
}

// Canceled reports whether the user aborted the operation.
func (r Result) Canceled() bool {
	return errors.Is(r.Err, domain.ErrInputCanceled)
}

// Rule returns the business rule code that failed the operation, if any.
func (r Result) Rule() string {
	return domain.RuleOf(r.Err)
}

func (p *Platform) ok(data any, key string, args ...any) Result {
	return Result{Success: true, Message: p.printer.Sprintf(key, args...), Data: data}
}

func (p *Platform) fail(err error) Result {
	if errors.Is(err, ErrTooManyAttempts) {
		return Result{Message: p.printer.Sprintf("platform.attempts"), Err: err}
	}
	return Result{Message: p.printer.Failure(err), Err: err}
}

// outcome maps a finished transition to a Result. Invalid or failed transitions are
// failures; anything else is built by success.
func (p *Platform) outcome(tr domain.Transition, err error, success func() Result) Result {
	if err != nil {
		return p.fail(err)
	}
	if tr.Err != nil {
		return p.fail(tr.Err)
	}
	if tr.IsInvalid() {
		return p.fail(domain.InvalidInput("operation did not complete"))
	}
	return success()
}
