// Package services holds helpers shared by the domain engines.
package services

import (
	"github.com/aretw0/silverconnect/pkg/domain"
)

// Input keys understood by every listing state.
const (
	InputChoice  = "choice"
	InputConfirm = "confirm"
)

// Choose resolves a 1-based menu choice against a listing of n items and returns the
// 0-based index. q/quit cancels; anything else outside 1..n is invalid.
func Choose(in domain.Input, n int) (int, *domain.Violation) {
	raw := in.String(InputChoice)
	if domain.IsQuit(raw) {
		return 0, domain.Canceled("selection canceled")
	}
	if n == 0 {
		return 0, domain.MissingPrecondition("nothing to choose from")
	}
	choice, ok := in.Int(InputChoice)
	if !ok {
		return 0, domain.InvalidInput("enter a number between 1 and %d or 'q'", n)
	}
	if choice < 1 || choice > n {
		return 0, domain.InvalidInput("choice %d is out of range 1-%d", choice, n)
	}
	return choice - 1, nil
}

// Confirm reads the yes/no confirmation answer.
func Confirm(in domain.Input) (bool, *domain.Violation) {
	if domain.IsQuit(in.String(InputConfirm)) {
		return false, domain.Canceled("confirmation canceled")
	}
	yes, ok := in.Confirm(InputConfirm)
	if !ok {
		return false, domain.InvalidInput("answer yes or no")
	}
	return yes, nil
}
