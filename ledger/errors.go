package ledger

import "errors"

// ErrorKind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings;
// Error() strings are for humans and may evolve.
type ErrorKind string

const (
	KindParse      ErrorKind = "Parse"
	KindValidation ErrorKind = "Validation"
)

// Error is the package's structured error type.
//
// RuleID is a stable identifier (e.g., SEAL-VAL-003) naming the violated
// invariant or validation rule.
type Error struct {
	Kind    ErrorKind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind ErrorKind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind ErrorKind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
