package i18n

import (
	"errors"

	"github.com/aretw0/silverconnect/pkg/domain"
)

// Failure renders err for the user. Business rules have their own message; other
// violations are prefixed with their class.
func (p *Printer) Failure(err error) string {
	if err == nil {
		return ""
	}
	if rule := domain.RuleOf(err); rule != "" {
		return p.Sprintf("rule." + rule)
	}
	reason := domain.ReasonOf(err)
	switch {
	case errors.Is(err, domain.ErrInputCanceled):
		return p.Sprintf("error.canceled")
	case errors.Is(err, domain.ErrInvalidInput):
		return p.Sprintf("error.invalid_input", reason)
	case errors.Is(err, domain.ErrMissingPrecondition):
		return p.Sprintf("error.missing_precondition", reason)
	case errors.Is(err, domain.ErrBusinessRule):
		return p.Sprintf("error.business_rule", reason)
	}
	return p.Sprintf("error.internal", reason)
}
