package marketplace

import "errors"

var (
	// ErrNotFound is returned when the marketplace does not know the dispute (HTTP 404)
	ErrNotFound = errors.New("dispute not found on marketplace")

	// ErrConflict is returned when the dispute can no longer be acted on (HTTP 409)
	ErrConflict = errors.New("marketplace conflict")

	// ErrBadRequest is returned when the marketplace rejects the payload (HTTP 400, 422)
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized is returned when the store credentials are refused (HTTP 401, 403)
	ErrUnauthorized = errors.New("store credentials rejected")

	// ErrServiceUnavailable is returned on HTTP 5xx and transport errors. Only these are retried.
	ErrServiceUnavailable = errors.New("marketplace unavailable")

	// ErrNoStore is returned when neither the call nor the client carries a store ref
	ErrNoStore = errors.New("store ref is required")
)
