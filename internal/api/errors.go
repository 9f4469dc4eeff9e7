package api

import "errors"

var (
	// ErrSessionExpired is returned when the backend answers 401
	ErrSessionExpired = errors.New("session expired")
	// ErrTimeout is returned when a call exceeds the client timeout
	ErrTimeout = errors.New("request timed out")
	// ErrTransport is returned when the backend cannot be reached
	ErrTransport = errors.New("request failed")
	// ErrNotAuthenticated is returned before calling an endpoint that needs a token when none is held
	ErrNotAuthenticated = errors.New("no authentication token")
)
