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

type assignmentRepository struct {
	db *sqlx.DB
}

const assignmentColumns = `task_id, recipient_id, status, acknowledged_at, archived_at, deleted_at, created_at`

func (r *assignmentRepository) Get(ctx context.Context, taskID types.TaskID, recipientID types.UserID) (*model.TaskAssignment, error) {
	var a model.TaskAssignment
	err := r.db.GetContext(ctx, &a,
		`SELECT `+assignmentColumns+` FROM task_assignments
		 WHERE task_id = ? AND recipient_id = ?`, taskID, recipientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "assignment not found",
			goerr.V("taskID", taskID), goerr.V("recipientID", recipientID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get assignment",
			goerr.V("taskID", taskID), goerr.V("recipientID", recipientID))
	}

	return &a, nil
}

func (r *assignmentRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.TaskAssignment, error) {
	result := []*model.TaskAssignment{}
	err := r.db.SelectContext(ctx, &result,
		`SELECT `+assignmentColumns+` FROM task_assignments
		 WHERE task_id = ? ORDER BY recipient_id`, taskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assignments", goerr.V("taskID", taskID))
	}

	return result, nil
}

func (r *assignmentRepository) ListByRecipient(ctx context.Context, recipientID types.UserID) ([]*model.TaskAssignment, error) {
	result := []*model.TaskAssignment{}
	err := r.db.SelectContext(ctx, &result,
		`SELECT `+assignmentColumns+` FROM task_assignments
		 WHERE recipient_id = ? ORDER BY task_id DESC`, recipientID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assignments", goerr.V("recipientID", recipientID))
	}

	return result, nil
}

func (r *assignmentRepository) MarkRead(ctx context.Context, taskID types.TaskID, recipientID types.UserID, at time.Time) (*model.TaskAssignment, error) {
	// Guarded update keeps the transition idempotent: only an unread
	// row changes, repeat calls fall through to the read-back.
	_, err := r.db.ExecContext(ctx,
		`UPDATE task_assignments
		 SET status = ?, acknowledged_at = COALESCE(acknowledged_at, ?)
		 WHERE task_id = ? AND recipient_id = ? AND status = ?`,
		types.AssignmentStatusRead, at, taskID, recipientID, types.AssignmentStatusUnread)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to mark assignment read",
			goerr.V("taskID", taskID), goerr.V("recipientID", recipientID))
	}

	return r.Get(ctx, taskID, recipientID)
}

func (r *assignmentRepository) Archive(ctx context.Context, taskID types.TaskID, recipientID types.UserID, at time.Time) (*model.TaskAssignment, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE task_assignments
		 SET status = ?, archived_at = ?
		 WHERE task_id = ? AND recipient_id = ? AND status != ?`,
		types.AssignmentStatusArchived, at, taskID, recipientID, types.AssignmentStatusArchived)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to archive assignment",
			goerr.V("taskID", taskID), goerr.V("recipientID", recipientID))
	}

	return r.Get(ctx, taskID, recipientID)
}

func (r *assignmentRepository) BulkArchive(ctx context.Context, recipientID types.UserID, filter model.ArchiveFilter, at time.Time) (int, error) {
	query := `UPDATE task_assignments
		 SET status = ?, archived_at = ?
		 WHERE recipient_id = ? AND status != ? AND deleted_at IS NULL`
	args := []any{types.AssignmentStatusArchived, at, recipientID, types.AssignmentStatusArchived}

	if filter.OnlyRead {
		query += ` AND status = ?`
		args = append(args, types.AssignmentStatusRead)
	}
	if filter.OlderThan != nil {
		query += ` AND created_at < ?`
		args = append(args, *filter.OlderThan)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to bulk archive", goerr.V("recipientID", recipientID))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count archived rows", goerr.V("recipientID", recipientID))
	}

	return int(affected), nil
}

func (r *assignmentRepository) CountUnread(ctx context.Context, recipientID types.UserID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM task_assignments
		 WHERE recipient_id = ? AND status = ? AND deleted_at IS NULL`,
		recipientID, types.AssignmentStatusUnread)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count unread assignments", goerr.V("recipientID", recipientID))
	}

	return count, nil
}
