package adapter

import "errors"

var (
	// ErrBadRequest maps HTTP 400: the server refused the request shape.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized maps HTTP 401: the token is missing, expired, or
	// revoked. Never retried automatically; the user must re-authenticate.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrConflict maps HTTP 409 (login already taken on register).
	ErrConflict = errors.New("conflict")

	// ErrServerUnavailable maps HTTP 502/503/504. Treated like a transient
	// network failure: the cycle stops and retries later.
	ErrServerUnavailable = errors.New("server unavailable")

	// ErrInternalServerError maps HTTP 500.
	ErrInternalServerError = errors.New("internal server error")
)
