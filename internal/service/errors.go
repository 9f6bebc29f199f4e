package service

import "errors"

var (
	// ErrInvalidDataProvided is returned when a request is missing required
	// fields (empty login or password, no changes, and so on).
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrInvalidCredentials is returned on login when the account does not
	// exist or the password does not match. Both cases collapse into one
	// error so a caller cannot probe for registered logins.
	ErrInvalidCredentials = errors.New("invalid login or password")

	// ErrTokenCreationFailed wraps JWT signing failures.
	ErrTokenCreationFailed = errors.New("token creation failed")

	// ErrTokenIsExpiredOrInvalid normalises every token validation failure
	// (expired, wrong issuer, malformed, bad signature).
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	// ErrNotRegistered is returned by client sync operations while the
	// device has no linked server account.
	ErrNotRegistered = errors.New("device is not registered")
)
