package types

import "fmt"

// Role represents a member's position in the organizational hierarchy.
// Ranks are strictly ordered; a sender can only reach roles below
// their own.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleManager     Role = "manager"
	RoleCoordinator Role = "coordinator"
	RoleActivist    Role = "activist"
)

var roleRanks = map[Role]int{
	RoleAdmin:       3,
	RoleManager:     2,
	RoleCoordinator: 1,
	RoleActivist:    0,
}

// AllRoles returns all valid roles, highest rank first
func AllRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleManager,
		RoleCoordinator,
		RoleActivist,
	}
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the role's position in the hierarchy; higher means
// more authority. Unknown roles rank below every valid one.
func (r Role) Rank() int {
	rank, ok := roleRanks[r]
	if !ok {
		return -1
	}
	return rank
}

// Outranks reports whether r sits strictly above other in the
// hierarchy.
func (r Role) Outranks(other Role) bool {
	return r.Rank() > other.Rank()
}

// CanDispatch reports whether the role may send tasks at all. The
// lowest rank is receive-only.
func (r Role) CanDispatch() bool {
	return r.Rank() > roleRanks[RoleActivist]
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return role, nil
}
