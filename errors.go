package stocksboard

import "errors"

// Error kinds. Errors returned by the api, auth and view packages match one
// of them with errors.Is.
var (
	// ErrValidation is a local precondition failure, no request was sent.
	ErrValidation = errors.New("validation error")
	// ErrAuthentication is a rejected credential or a missing/invalid token (401).
	ErrAuthentication = errors.New("authentication error")
	// ErrAuthorization is a role-insufficient action (403).
	ErrAuthorization = errors.New("authorization error")
	// ErrNotFound is a missing resource (404).
	ErrNotFound = errors.New("not found")
	// ErrConflict is a conflicting mutation (409).
	ErrConflict = errors.New("conflict")
	// ErrTransport is a network failure, a timeout or an unreadable response.
	ErrTransport = errors.New("transport error")
	// ErrUnmounted is returned when a response arrives after its view was
	// unmounted: the response has been dropped.
	ErrUnmounted = errors.New("view unmounted")
)
