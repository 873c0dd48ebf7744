package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrInvalidCode        = errors.New("invalid recovery code")
	ErrForbidden          = errors.New("access forbidden")
	ErrUnexpected         = errors.New("unexpected error")
)

// FailureReason is the typed outcome reported to the presentation layer.
type FailureReason string

const (
	ReasonNone               FailureReason = ""
	ReasonInvalidCredentials FailureReason = "InvalidCredentials"
	ReasonUserNotFound       FailureReason = "UserNotFound"
	ReasonUserExists         FailureReason = "UserExists"
	ReasonWrongPassword      FailureReason = "WrongPassword"
	ReasonInvalidCode        FailureReason = "InvalidCode"
	ReasonForbidden          FailureReason = "Forbidden"
	ReasonUnexpectedError    FailureReason = "UnexpectedError"
)

// ReasonOf classifies err. Anything not recognised is an UnexpectedError.
func ReasonOf(err error) FailureReason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrInvalidCredentials):
		return ReasonInvalidCredentials
	case errors.Is(err, ErrUserNotFound):
		return ReasonUserNotFound
	case errors.Is(err, ErrUserExists):
		return ReasonUserExists
	case errors.Is(err, ErrWrongPassword):
		return ReasonWrongPassword
	case errors.Is(err, ErrInvalidCode):
		return ReasonInvalidCode
	case errors.Is(err, ErrForbidden):
		return ReasonForbidden
	default:
		return ReasonUnexpectedError
	}
}
