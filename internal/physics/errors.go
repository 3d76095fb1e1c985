package physics

import "errors"

var (
	// ErrInvalidConfig is returned by New and Spawn for parameters outside
	// their valid range. It is never produced mid-simulation.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrUnknownHandle is returned when a handle does not name a live body,
	// either because it was never issued or because the body was removed.
	ErrUnknownHandle = errors.New("unknown body handle")
)
