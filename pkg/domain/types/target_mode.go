package types

import "fmt"

// TargetMode selects how a broadcast chooses its recipients
type TargetMode string

const (
	// TargetModeAll reaches every subordinate of the sender
	TargetModeAll TargetMode = "all"

	// TargetModeSelected reaches an explicit list of subordinates
	TargetModeSelected TargetMode = "selected"
)

// IsValid checks if the target mode is valid
func (m TargetMode) IsValid() bool {
	switch m {
	case TargetModeAll, TargetModeSelected:
		return true
	default:
		return false
	}
}

// String returns the string representation of the target mode
func (m TargetMode) String() string {
	return string(m)
}

// ParseTargetMode parses a string into a TargetMode
func ParseTargetMode(s string) (TargetMode, error) {
	mode := TargetMode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid target mode: %s", s)
	}
	return mode, nil
}
