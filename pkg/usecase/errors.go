package usecase

import "errors"

// Error kinds for the operation boundary. Every error returned by a
// use case wraps exactly one of these so callers can map it to a
// transport status without inspecting messages.
var (
	// ErrUnauthorized: no valid caller identity present
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden: the caller's identity or role does not permit the action
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound: referenced task or assignment does not exist
	ErrNotFound = errors.New("not found")

	// ErrValidation: malformed input or business-rule violation
	ErrValidation = errors.New("validation failed")

	// ErrConflict: a precondition re-checked inside a transaction
	// changed since the earlier read
	ErrConflict = errors.New("conflict")
)

// Context keys for error values
const (
	TaskIDKey     = "task_id"
	MemberIDKey   = "member_id"
	TargetModeKey = "target_mode"
)
