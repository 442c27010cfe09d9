package types

// UserID identifies a member of the organization
type UserID string

// String returns the string representation of the user ID
func (id UserID) String() string {
	return string(id)
}

// TaskID identifies a dispatched task. IDs are assigned by the store
// as a per-deployment monotonic counter, so newer tasks always carry
// larger IDs.
type TaskID int64

// UnitID identifies a node of the organizational tree
type UnitID string

// String returns the string representation of the unit ID
func (id UnitID) String() string {
	return string(id)
}
