package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
	"github.com/mateh-lab/taskcast/pkg/repository/memory"
	"github.com/mateh-lab/taskcast/pkg/usecase"
)

// seedOrg loads a small campaign org into the repository:
//
//	hq
//	├── north
//	│   └── north-a
//	└── south
//
// with one admin at hq, a manager per region and coordinators and
// activists below them.
func seedOrg(t *testing.T, repo interfaces.Repository) {
	t.Helper()
	ctx := context.Background()

	units := []*model.OrgUnit{
		{ID: "hq", Name: "Headquarters"},
		{ID: "north", Name: "North Region", ParentID: "hq"},
		{ID: "north-a", Name: "North District A", ParentID: "north"},
		{ID: "south", Name: "South Region", ParentID: "hq"},
	}
	for _, u := range units {
		gt.NoError(t, repo.Unit().Put(ctx, u)).Required()
	}

	members := []*model.Member{
		{ID: "admin-1", Name: "Dana", Role: types.RoleAdmin, UnitID: "hq"},
		{ID: "manager-north", Name: "Noa", Role: types.RoleManager, UnitID: "north"},
		{ID: "manager-south", Name: "Omer", Role: types.RoleManager, UnitID: "south"},
		{ID: "coord-north-a", Name: "Yuval", Role: types.RoleCoordinator, UnitID: "north-a"},
		{ID: "coord-south", Name: "Tamar", Role: types.RoleCoordinator, UnitID: "south"},
		{ID: "activist-north", Name: "Lior", Role: types.RoleActivist, UnitID: "north"},
		{ID: "activist-north-a", Name: "Gal", Role: types.RoleActivist, UnitID: "north-a"},
		{ID: "activist-south", Name: "Shira", Role: types.RoleActivist, UnitID: "south"},
	}
	for _, m := range members {
		gt.NoError(t, repo.Member().Put(ctx, m)).Required()
	}
}

func getMember(t *testing.T, repo interfaces.Repository, id types.UserID) *model.Member {
	t.Helper()
	m, err := repo.Member().Get(context.Background(), id)
	gt.NoError(t, err).Required()
	return m
}

// newSeededUseCases builds use cases over a seeded in-memory
// repository with a controllable clock.
func newSeededUseCases(t *testing.T, now *time.Time) (*usecase.UseCases, interfaces.Repository) {
	t.Helper()
	repo := memory.New()
	seedOrg(t, repo)

	uc := usecase.New(repo, usecase.WithClock(func() time.Time { return *now }))
	return uc, repo
}
