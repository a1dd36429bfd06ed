package download

import "errors"

// Sentinel errors for the download package.
var (
	// ErrNotFound is returned when an episode has no download record.
	ErrNotFound = errors.New("download not found")

	// ErrInvalidTransition is returned for a state change the state machine forbids.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrActionNotAllowed is returned when an action is not offered in the current state.
	ErrActionNotAllowed = errors.New("action not allowed")
)
