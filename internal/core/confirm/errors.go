package confirm

import (
	perr "assistify/internal/platform/errors"
)

// Sentinel failures of Redeem
var (
	ErrConfirmationExpired     = perr.New(perr.ErrorCodeExpired, "confirmation expired or already used")
	ErrWrongUser               = perr.New(perr.ErrorCodeForbidden, "this confirmation belongs to another user")
	ErrInvalidConfirmationCode = perr.WithField(perr.New(perr.ErrorCodeInvalidArgument, "confirmation code does not match"), "confirmation_code")
)

// AbilityExecutionError is returned when a confirmed ability fails; the message is the ability's own
type AbilityExecutionError struct {
	AbilityID string
	Err       error
}

func (e *AbilityExecutionError) Error() string {
	if e == nil || e.Err == nil {
		return "ability failed"
	}
	return e.Err.Error()
}

// Unwrap returns the ability error
func (e *AbilityExecutionError) Unwrap() error { return e.Err }
