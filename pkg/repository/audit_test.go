package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

func runAuditRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Append assigns ID and timestamp", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		entry := &model.AuditEntry{
			Action:     types.AuditActionTaskDispatched,
			EntityType: "task",
			EntityID:   "1",
			Actor:      "sender-1",
			After:      map[string]any{"body": "hello"},
			Meta:       map[string]any{"recipients": float64(3)},
		}
		gt.NoError(t, repo.Audit().Append(ctx, entry)).Required()

		entries, err := repo.Audit().List(ctx, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(1)
		gt.Value(t, entries[0].ID).NotEqual("")
		gt.Value(t, entries[0].Action).Equal(types.AuditActionTaskDispatched)
		gt.Value(t, entries[0].Actor).Equal(types.UserID("sender-1"))
		gt.Bool(t, entries[0].CreatedAt.IsZero()).False()
		gt.Value(t, entries[0].After["body"]).Equal("hello")
	})

	t.Run("List returns newest first with limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Now().UTC().Add(-time.Hour)
		actions := []types.AuditAction{
			types.AuditActionTaskDispatched,
			types.AuditActionAssignmentRead,
			types.AuditActionTaskRetracted,
		}
		for i, action := range actions {
			gt.NoError(t, repo.Audit().Append(ctx, &model.AuditEntry{
				Action:     action,
				EntityType: "task",
				EntityID:   "1",
				Actor:      "sender-1",
				CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			})).Required()
		}

		entries, err := repo.Audit().List(ctx, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(2)
		gt.Value(t, entries[0].Action).Equal(types.AuditActionTaskRetracted)
		gt.Value(t, entries[1].Action).Equal(types.AuditActionAssignmentRead)
	})
}

func TestAuditRepository_Memory(t *testing.T) {
	runAuditRepositoryTest(t, newMemoryRepo)
}

func TestAuditRepository_SQLite(t *testing.T) {
	runAuditRepositoryTest(t, newSQLiteRepo)
}

func TestAuditRepository_Firestore(t *testing.T) {
	runAuditRepositoryTest(t, newFirestoreRepo)
}
