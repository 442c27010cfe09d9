package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

type taskRepository struct {
	db *sqlx.DB
}

func (r *taskRepository) CreateWithAssignments(ctx context.Context, t *model.Task, recipients []types.UserID) (*model.Task, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO tasks (body, sender_id, created_at) VALUES (?, ?, ?)`,
		t.Body, t.SenderID, now)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to insert task")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get task ID")
	}

	for _, recipientID := range recipients {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_assignments (task_id, recipient_id, status, created_at)
			 VALUES (?, ?, ?, ?)`,
			id, recipientID, types.AssignmentStatusUnread, now); err != nil {
			return nil, goerr.Wrap(err, "failed to insert assignment",
				goerr.V("taskID", id), goerr.V("recipientID", recipientID))
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, goerr.Wrap(err, "failed to commit dispatch transaction")
	}

	return &model.Task{
		ID:        types.TaskID(id),
		Body:      t.Body,
		SenderID:  t.SenderID,
		CreatedAt: now,
	}, nil
}

func (r *taskRepository) Get(ctx context.Context, id types.TaskID) (*model.Task, error) {
	var t model.Task
	err := r.db.GetContext(ctx, &t,
		`SELECT id, body, sender_id, created_at, deleted_at FROM tasks WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get task", goerr.V("id", id))
	}

	return &t, nil
}

func (r *taskRepository) ListBySender(ctx context.Context, senderID types.UserID) ([]*model.Task, error) {
	tasks := []*model.Task{}
	err := r.db.SelectContext(ctx, &tasks,
		`SELECT id, body, sender_id, created_at, deleted_at FROM tasks
		 WHERE sender_id = ? ORDER BY id DESC`, senderID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks", goerr.V("senderID", senderID))
	}

	return tasks, nil
}

func (r *taskRepository) Retract(ctx context.Context, id types.TaskID, deletedAt time.Time) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Fresh reads inside the transaction: the guard must not rely on
	// state observed before it began.
	var t model.Task
	err = tx.GetContext(ctx, &t,
		`SELECT id, body, sender_id, created_at, deleted_at FROM tasks WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("id", id))
	}
	if err != nil {
		return 0, goerr.Wrap(err, "failed to get task", goerr.V("id", id))
	}
	if t.DeletedAt != nil {
		return 0, goerr.Wrap(interfaces.ErrTaskAlreadyRetracted, "task already retracted", goerr.V("id", id))
	}

	var acknowledged int
	if err := tx.GetContext(ctx, &acknowledged,
		`SELECT COUNT(*) FROM task_assignments
		 WHERE task_id = ? AND acknowledged_at IS NOT NULL`, id); err != nil {
		return 0, goerr.Wrap(err, "failed to count acknowledgements", goerr.V("id", id))
	}
	if acknowledged > 0 {
		return 0, goerr.Wrap(interfaces.ErrTaskAcknowledged, "cannot retract an acknowledged task",
			goerr.V("id", id), goerr.V("acknowledged", acknowledged))
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE tasks SET deleted_at = ? WHERE id = ?`, deletedAt, id); err != nil {
		return 0, goerr.Wrap(err, "failed to mark task deleted", goerr.V("id", id))
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE task_assignments SET deleted_at = ? WHERE task_id = ?`, deletedAt, id)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to flag assignments deleted", goerr.V("id", id))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count affected assignments", goerr.V("id", id))
	}

	if err := tx.Commit(); err != nil {
		return 0, goerr.Wrap(err, "failed to commit retraction transaction")
	}

	return int(affected), nil
}
