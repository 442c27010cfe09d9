package types

import "fmt"

// AssignmentStatus represents the lifecycle state of one recipient's
// copy of a task. The deleted-for-recipient flag is tracked
// separately; it is not a status.
type AssignmentStatus string

const (
	AssignmentStatusUnread   AssignmentStatus = "unread"
	AssignmentStatusRead     AssignmentStatus = "read"
	AssignmentStatusArchived AssignmentStatus = "archived"
)

// AllAssignmentStatuses returns all valid assignment statuses
func AllAssignmentStatuses() []AssignmentStatus {
	return []AssignmentStatus{
		AssignmentStatusUnread,
		AssignmentStatusRead,
		AssignmentStatusArchived,
	}
}

// IsValid checks if the assignment status is valid
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusUnread,
		AssignmentStatusRead,
		AssignmentStatusArchived:
		return true
	default:
		return false
	}
}

// String returns the string representation of the assignment status
func (s AssignmentStatus) String() string {
	return string(s)
}

// ParseAssignmentStatus parses a string into an AssignmentStatus
func ParseAssignmentStatus(s string) (AssignmentStatus, error) {
	status := AssignmentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid assignment status: %s", s)
	}
	return status, nil
}
