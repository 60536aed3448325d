package player

import "errors"

var (
	// ErrNotFound is returned when a player row does not exist.
	ErrNotFound = errors.New("player: not found")

	// ErrInvalidPreferences is returned when a caller submits a preferences
	// document the store cannot accept (e.g. not valid JSON). The API never
	// introspects the contents beyond requiring valid JSON.
	ErrInvalidPreferences = errors.New("player: preferences must be valid JSON")
)
