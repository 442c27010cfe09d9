package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

func runTaskRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("CreateWithAssignments creates task with monotonic ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created1 := newTask(t, repo, "sender-1", "rcpt-1", "rcpt-2")
		gt.Value(t, created1.ID).NotEqual(types.TaskID(0))
		gt.Value(t, created1.SenderID).Equal(types.UserID("sender-1"))
		gt.Bool(t, created1.CreatedAt.IsZero()).False()
		gt.Value(t, created1.DeletedAt).Nil()

		created2 := newTask(t, repo, "sender-1", "rcpt-1")
		gt.Bool(t, created2.ID > created1.ID).True()

		assignments, err := repo.Assignment().ListByTask(ctx, created1.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, assignments).Length(2)
		for _, a := range assignments {
			gt.Value(t, a.TaskID).Equal(created1.ID)
			gt.Value(t, a.Status).Equal(types.AssignmentStatusUnread)
			gt.Value(t, a.AcknowledgedAt).Nil()
			gt.Value(t, a.DeletedAt).Nil()
		}
	})

	t.Run("CreateWithAssignments rolls back the task on a failed assignment insert", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		// A duplicate recipient violates the (task_id, recipient_id)
		// key; the task insert must not survive it.
		_, err := repo.Task().CreateWithAssignments(ctx, &model.Task{
			Body:     "duplicate fan-out",
			SenderID: "sender-dup",
		}, []types.UserID{"rcpt-1", "rcpt-2", "rcpt-1"})
		gt.Error(t, err)

		tasks, err := repo.Task().ListBySender(ctx, "sender-dup")
		gt.NoError(t, err).Required()
		gt.Array(t, tasks).Length(0)

		assignments, err := repo.Assignment().ListByRecipient(ctx, "rcpt-2")
		gt.NoError(t, err).Required()
		gt.Array(t, assignments).Length(0)
	})

	t.Run("Get retrieves existing task", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created := newTask(t, repo, "sender-1", "rcpt-1")

		retrieved, err := repo.Task().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.ID).Equal(created.ID)
		gt.Value(t, retrieved.Body).Equal(created.Body)
		gt.Value(t, retrieved.SenderID).Equal(created.SenderID)
	})

	t.Run("Get returns not found for unknown task", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Task().Get(ctx, types.TaskID(time.Now().UnixNano()))
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})

	t.Run("ListBySender returns only the sender's tasks newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first := newTask(t, repo, "sender-a", "rcpt-1")
		second := newTask(t, repo, "sender-a", "rcpt-2")
		newTask(t, repo, "sender-b", "rcpt-1")

		tasks, err := repo.Task().ListBySender(ctx, "sender-a")
		gt.NoError(t, err).Required()
		gt.Array(t, tasks).Length(2)
		gt.Value(t, tasks[0].ID).Equal(second.ID)
		gt.Value(t, tasks[1].ID).Equal(first.ID)
	})

	t.Run("Retract flags task and every assignment", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created := newTask(t, repo, "sender-1", "rcpt-1", "rcpt-2", "rcpt-3")

		deletedAt := time.Now().UTC()
		affected, err := repo.Task().Retract(ctx, created.ID, deletedAt)
		gt.NoError(t, err).Required()
		gt.Value(t, affected).Equal(3)

		task, err := repo.Task().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, task.DeletedAt).NotNil()

		assignments, err := repo.Assignment().ListByTask(ctx, created.ID)
		gt.NoError(t, err).Required()
		for _, a := range assignments {
			gt.Value(t, a.DeletedAt).NotNil()
		}
	})

	t.Run("Retract fails on already retracted task", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created := newTask(t, repo, "sender-1", "rcpt-1")

		_, err := repo.Task().Retract(ctx, created.ID, time.Now().UTC())
		gt.NoError(t, err).Required()

		_, err = repo.Task().Retract(ctx, created.ID, time.Now().UTC())
		gt.Bool(t, errors.Is(err, interfaces.ErrTaskAlreadyRetracted)).True()
	})

	t.Run("Retract fails when any assignment is acknowledged", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created := newTask(t, repo, "sender-1", "rcpt-1", "rcpt-2")

		_, err := repo.Assignment().MarkRead(ctx, created.ID, "rcpt-2", time.Now().UTC())
		gt.NoError(t, err).Required()

		_, err = repo.Task().Retract(ctx, created.ID, time.Now().UTC())
		gt.Bool(t, errors.Is(err, interfaces.ErrTaskAcknowledged)).True()

		// Nothing was flagged
		task, err := repo.Task().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, task.DeletedAt).Nil()

		a, err := repo.Assignment().Get(ctx, created.ID, "rcpt-1")
		gt.NoError(t, err).Required()
		gt.Value(t, a.DeletedAt).Nil()
	})

	t.Run("Retract blocks even when the acknowledging recipient archived", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created := newTask(t, repo, "sender-1", "rcpt-1")

		_, err := repo.Assignment().MarkRead(ctx, created.ID, "rcpt-1", time.Now().UTC())
		gt.NoError(t, err).Required()
		_, err = repo.Assignment().Archive(ctx, created.ID, "rcpt-1", time.Now().UTC())
		gt.NoError(t, err).Required()

		_, err = repo.Task().Retract(ctx, created.ID, time.Now().UTC())
		gt.Bool(t, errors.Is(err, interfaces.ErrTaskAcknowledged)).True()
	})

	t.Run("Retract returns not found for unknown task", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Task().Retract(ctx, types.TaskID(time.Now().UnixNano()), time.Now().UTC())
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})

	t.Run("Retract flags archived assignments too", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created := newTask(t, repo, "sender-1", "rcpt-1", "rcpt-2")

		// Archive without reading keeps the task retractable
		_, err := repo.Assignment().Archive(ctx, created.ID, "rcpt-1", time.Now().UTC())
		gt.NoError(t, err).Required()

		affected, err := repo.Task().Retract(ctx, created.ID, time.Now().UTC())
		gt.NoError(t, err).Required()
		gt.Value(t, affected).Equal(2)

		a, err := repo.Assignment().Get(ctx, created.ID, "rcpt-1")
		gt.NoError(t, err).Required()
		gt.Value(t, a.DeletedAt).NotNil()
		gt.Value(t, a.Status).Equal(types.AssignmentStatusArchived)
	})
}

func TestTaskRepository_Memory(t *testing.T) {
	runTaskRepositoryTest(t, newMemoryRepo)
}

func TestTaskRepository_SQLite(t *testing.T) {
	runTaskRepositoryTest(t, newSQLiteRepo)
}

func TestTaskRepository_Firestore(t *testing.T) {
	runTaskRepositoryTest(t, newFirestoreRepo)
}
