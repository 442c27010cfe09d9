package model

import (
	"sort"

	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

// RecipientSet is a resolved, deduplicated set of broadcast
// recipients, with breakdowns for preview display.
type RecipientSet struct {
	IDs    []types.UserID       `json:"ids"`
	ByRole map[types.Role]int   `json:"by_role"`
	ByUnit map[types.UnitID]int `json:"by_unit"`
}

// NewRecipientSet builds a set from resolved members, dropping
// duplicates and sorting IDs for deterministic output.
func NewRecipientSet(members []*Member) *RecipientSet {
	seen := map[types.UserID]bool{}
	rs := &RecipientSet{
		IDs:    []types.UserID{},
		ByRole: map[types.Role]int{},
		ByUnit: map[types.UnitID]int{},
	}

	for _, m := range members {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		rs.IDs = append(rs.IDs, m.ID)
		rs.ByRole[m.Role]++
		rs.ByUnit[m.UnitID]++
	}

	sort.Slice(rs.IDs, func(i, j int) bool { return rs.IDs[i] < rs.IDs[j] })

	return rs
}

// Count returns the number of recipients in the set
func (rs *RecipientSet) Count() int {
	return len(rs.IDs)
}
