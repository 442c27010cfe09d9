package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

func runMemberRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put and Get member", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		m := &model.Member{
			ID:     "member-1",
			Name:   "Noa Levi",
			Role:   types.RoleManager,
			UnitID: "north",
		}
		gt.NoError(t, repo.Member().Put(ctx, m)).Required()

		got, err := repo.Member().Get(ctx, "member-1")
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(m.ID)
		gt.Value(t, got.Name).Equal(m.Name)
		gt.Value(t, got.Role).Equal(types.RoleManager)
		gt.Value(t, got.UnitID).Equal(types.UnitID("north"))
		gt.Bool(t, got.CreatedAt.IsZero()).False()
	})

	t.Run("Put replaces an existing member", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Member().Put(ctx, &model.Member{
			ID: "member-1", Name: "Noa Levi", Role: types.RoleActivist, UnitID: "north",
		})).Required()
		gt.NoError(t, repo.Member().Put(ctx, &model.Member{
			ID: "member-1", Name: "Noa Levi", Role: types.RoleCoordinator, UnitID: "north-a",
		})).Required()

		got, err := repo.Member().Get(ctx, "member-1")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Role).Equal(types.RoleCoordinator)
		gt.Value(t, got.UnitID).Equal(types.UnitID("north-a"))
	})

	t.Run("Get returns not found for unknown member", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Member().Get(ctx, "nobody")
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})

	t.Run("List returns members sorted by ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, id := range []types.UserID{"member-c", "member-a", "member-b"} {
			gt.NoError(t, repo.Member().Put(ctx, &model.Member{
				ID: id, Name: string(id), Role: types.RoleActivist, UnitID: "north",
			})).Required()
		}

		members, err := repo.Member().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, members).Length(3)
		gt.Value(t, members[0].ID).Equal(types.UserID("member-a"))
		gt.Value(t, members[2].ID).Equal(types.UserID("member-c"))
	})

	t.Run("Put and List units", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Unit().Put(ctx, &model.OrgUnit{ID: "hq", Name: "Headquarters"})).Required()
		gt.NoError(t, repo.Unit().Put(ctx, &model.OrgUnit{ID: "north", Name: "North", ParentID: "hq"})).Required()

		got, err := repo.Unit().Get(ctx, "north")
		gt.NoError(t, err).Required()
		gt.Value(t, got.ParentID).Equal(types.UnitID("hq"))

		units, err := repo.Unit().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, units).Length(2)

		_, err = repo.Unit().Get(ctx, "nowhere")
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})
}

func TestMemberRepository_Memory(t *testing.T) {
	runMemberRepositoryTest(t, newMemoryRepo)
}

func TestMemberRepository_SQLite(t *testing.T) {
	runMemberRepositoryTest(t, newSQLiteRepo)
}

func TestMemberRepository_Firestore(t *testing.T) {
	runMemberRepositoryTest(t, newFirestoreRepo)
}
