package domain

import (
	"errors"
	"fmt"
)

// Error classes. Every Violation unwraps to exactly one of these.
var (
	// ErrInvalidInput is a malformed or out-of-range response; the same state re-prompts.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBusinessRule is a domain invariant that would be broken by the request.
	ErrBusinessRule = errors.New("business rule violation")

	// ErrMissingPrecondition is required upstream data that is absent.
	ErrMissingPrecondition = errors.New("missing precondition")

	// ErrInputCanceled is returned when a pending input request is aborted (q/quit or context cancel).
	ErrInputCanceled = errors.New("input canceled")
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUserNotFound is returned by user directories for unknown usernames.
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is returned by user directories when a username is taken.
var ErrUserExists = errors.New("user already exists")

// Ledger errors.
var (
	ErrAlreadyClaimed = errors.New("already claimed")
	ErrCapacityFull   = errors.New("capacity full")
	ErrNotClaimed     = errors.New("not claimed")
)

// Business rule codes.
const (
	RulePasswordMismatch = "password_mismatch"
	RuleUserExists       = "user_exists"
	RuleAlreadyBooked    = "already_booked"
	RuleCapacityFull     = "capacity_full"
	RuleAlreadyMember    = "already_member"
	RuleNotAFriend       = "not_a_friend"
	RuleNotMember        = "not_member"
	RuleNotBooked        = "not_booked"
)

// Violation is a classified, human-readable failure produced by a state.
type Violation struct {
	Class  error
	Rule   string
	Reason string
}

func (v *Violation) Error() string {
	if v.Rule != "" {
		return fmt.Sprintf("%s (%s): %s", v.Class, v.Rule, v.Reason)
	}
	return fmt.Sprintf("%s: %s", v.Class, v.Reason)
}

func (v *Violation) Unwrap() error {
	return v.Class
}

// InvalidInput builds an ErrInvalidInput violation.
func InvalidInput(format string, args ...any) *Violation {
	return &Violation{Class: ErrInvalidInput, Reason: fmt.Sprintf(format, args...)}
}

// RuleViolation builds an ErrBusinessRule violation with a rule code.
func RuleViolation(rule, format string, args ...any) *Violation {
	return &Violation{Class: ErrBusinessRule, Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

// MissingPrecondition builds an ErrMissingPrecondition violation.
func MissingPrecondition(format string, args ...any) *Violation {
	return &Violation{Class: ErrMissingPrecondition, Reason: fmt.Sprintf(format, args...)}
}

// Canceled builds an ErrInputCanceled violation.
func Canceled(reason string) *Violation {
	return &Violation{Class: ErrInputCanceled, Reason: reason}
}

// RuleOf returns the rule code carried by err, or "" when err is not a Violation.
func RuleOf(err error) string {
	var v *Violation
	if errors.As(err, &v) {
		return v.Rule
	}
	return ""
}

// ReasonOf returns the human-readable reason carried by err.
func ReasonOf(err error) string {
	if err == nil {
		return ""
	}
	var v *Violation
	if errors.As(err, &v) {
		return v.Reason
	}
	return err.Error()
}
