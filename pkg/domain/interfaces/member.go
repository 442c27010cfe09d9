package interfaces

import (
	"context"

	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

// MemberRepository defines the interface for the member directory
type MemberRepository interface {
	// Put creates or replaces a member
	Put(ctx context.Context, m *model.Member) error

	// Get retrieves a member by ID
	Get(ctx context.Context, id types.UserID) (*model.Member, error)

	// List retrieves all members sorted by ID
	List(ctx context.Context) ([]*model.Member, error)
}

// UnitRepository defines the interface for the organizational tree
type UnitRepository interface {
	// Put creates or replaces a unit
	Put(ctx context.Context, u *model.OrgUnit) error

	// Get retrieves a unit by ID
	Get(ctx context.Context, id types.UnitID) (*model.OrgUnit, error)

	// List retrieves all units sorted by ID
	List(ctx context.Context) ([]*model.OrgUnit, error)
}
