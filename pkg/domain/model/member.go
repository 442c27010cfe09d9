package model

import (
	"time"

	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

// Member is one person in the organization directory
type Member struct {
	ID        types.UserID `json:"id" firestore:"id" db:"id"`
	Name      string       `json:"name" firestore:"name" db:"name"`
	Role      types.Role   `json:"role" firestore:"role" db:"role"`
	UnitID    types.UnitID `json:"unit_id" firestore:"unit_id" db:"unit_id"`
	CreatedAt time.Time    `json:"created_at" firestore:"created_at" db:"created_at"`
}

// OrgUnit is one node of the organizational tree. The root has an
// empty ParentID.
type OrgUnit struct {
	ID       types.UnitID `json:"id" firestore:"id" db:"id"`
	Name     string       `json:"name" firestore:"name" db:"name"`
	ParentID types.UnitID `json:"parent_id,omitempty" firestore:"parent_id" db:"parent_id"`
}
