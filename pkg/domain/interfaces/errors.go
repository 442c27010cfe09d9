package interfaces

import "errors"

// Sentinel errors shared by all repository backends. Backends wrap
// these with goerr so callers can match with errors.Is regardless of
// the storage engine.
var (
	ErrNotFound = errors.New("not found")

	// ErrTaskAlreadyRetracted is returned by Retract when the task's
	// deleted timestamp is already set.
	ErrTaskAlreadyRetracted = errors.New("task already retracted")

	// ErrTaskAcknowledged is returned by Retract when any assignment
	// carries an acknowledged timestamp. The check runs inside the
	// retraction transaction on a fresh read.
	ErrTaskAcknowledged = errors.New("task has acknowledged assignments")
)
