package session

import "errors"

var (
	// ErrSessionNotFound is returned for unknown or expired session IDs.
	ErrSessionNotFound = errors.New("deck session not found")

	// ErrCardUnavailable is returned when a card is not in the session's card pool.
	ErrCardUnavailable = errors.New("card not available to this character")
)
