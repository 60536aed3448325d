package auth

import "errors"

var (
	// ErrInvalidOpenIDResponse is returned when Steam's check_authentication
	// response does not contain "is_valid:true".
	ErrInvalidOpenIDResponse = errors.New("auth: steam openid verification failed")

	// ErrSessionNotFound is returned when a cookie or session id does not
	// resolve to a live WebSessions row.
	ErrSessionNotFound = errors.New("auth: session not found or expired")

	// ErrUnknownPluginVersion is returned by the server key-exchange when the
	// caller's plugin_version does not resolve in the catalogue.
	ErrUnknownPluginVersion = errors.New("auth: unknown plugin version")

	// ErrInvalidAPIKey is returned when an access key does not match any
	// approved server.
	ErrInvalidAPIKey = errors.New("auth: invalid api key")
)
