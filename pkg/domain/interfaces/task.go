package interfaces

import (
	"context"
	"time"

	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

// TaskRepository defines the interface for Task data access
type TaskRepository interface {
	// CreateWithAssignments creates a task with an auto-assigned
	// monotonic ID plus one unread assignment per recipient, all in a
	// single transaction. A failure creating any assignment rolls back
	// the task row.
	CreateWithAssignments(ctx context.Context, t *model.Task, recipients []types.UserID) (*model.Task, error)

	// Get retrieves a task by ID
	Get(ctx context.Context, id types.TaskID) (*model.Task, error)

	// ListBySender retrieves a sender's tasks, newest first
	ListBySender(ctx context.Context, senderID types.UserID) ([]*model.Task, error)

	// Retract soft-deletes a task and flags every one of its
	// assignments deleted-for-recipient in a single transaction. It
	// re-reads the task and its assignments inside the transaction and
	// returns ErrTaskAlreadyRetracted or ErrTaskAcknowledged when the
	// precondition no longer holds. Returns the number of assignments
	// flagged.
	Retract(ctx context.Context, id types.TaskID, deletedAt time.Time) (int, error)
}
