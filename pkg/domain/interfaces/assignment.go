package interfaces

import (
	"context"
	"time"

	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

// AssignmentRepository defines the interface for TaskAssignment data
// access. All mutations are scoped to one (task, recipient) row except
// BulkArchive, which is scoped to one recipient.
type AssignmentRepository interface {
	// Get retrieves one assignment by its (task, recipient) pair
	Get(ctx context.Context, taskID types.TaskID, recipientID types.UserID) (*model.TaskAssignment, error)

	// ListByTask retrieves all assignments of a task
	ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.TaskAssignment, error)

	// ListByRecipient retrieves a recipient's assignments, newest first
	ListByRecipient(ctx context.Context, recipientID types.UserID) ([]*model.TaskAssignment, error)

	// MarkRead transitions an assignment from unread to read and sets
	// the acknowledged timestamp. Idempotent: when the assignment has
	// already left unread, the stored row is returned unchanged.
	MarkRead(ctx context.Context, taskID types.TaskID, recipientID types.UserID, at time.Time) (*model.TaskAssignment, error)

	// Archive sets the status to archived with a timestamp. Allowed
	// from unread or read, and regardless of the deleted flag.
	// Re-archiving returns the stored row unchanged.
	Archive(ctx context.Context, taskID types.TaskID, recipientID types.UserID, at time.Time) (*model.TaskAssignment, error)

	// BulkArchive archives the recipient's assignments matching the
	// filter, skipping rows already archived or flagged
	// deleted-for-recipient. Returns the number archived.
	BulkArchive(ctx context.Context, recipientID types.UserID, filter model.ArchiveFilter, at time.Time) (int, error)

	// CountUnread counts the recipient's unread assignments, excluding
	// archived and deleted-for-recipient rows.
	CountUnread(ctx context.Context, recipientID types.UserID) (int, error)
}
