package model

import (
	"time"

	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

// TaskAssignment is one recipient's copy of a task. Status tracks the
// read/archive lifecycle; DeletedAt is an independent flag set when
// the sender retracts the task.
type TaskAssignment struct {
	TaskID         types.TaskID           `json:"task_id" firestore:"task_id" db:"task_id"`
	RecipientID    types.UserID           `json:"recipient_id" firestore:"recipient_id" db:"recipient_id"`
	Status         types.AssignmentStatus `json:"status" firestore:"status" db:"status"`
	AcknowledgedAt *time.Time             `json:"acknowledged_at,omitempty" firestore:"acknowledged_at" db:"acknowledged_at"`
	ArchivedAt     *time.Time             `json:"archived_at,omitempty" firestore:"archived_at" db:"archived_at"`
	DeletedAt      *time.Time             `json:"deleted_at,omitempty" firestore:"deleted_at" db:"deleted_at"`
	CreatedAt      time.Time              `json:"created_at" firestore:"created_at" db:"created_at"`
}

// IsAcknowledged reports whether the recipient has ever read the task.
// Archiving does not clear the acknowledgement.
func (a *TaskAssignment) IsAcknowledged() bool {
	return a.AcknowledgedAt != nil
}

// IsDeleted reports whether the sender retracted the task under this
// assignment.
func (a *TaskAssignment) IsDeleted() bool {
	return a.DeletedAt != nil
}

// InboxEntry joins an assignment with its task for recipient-facing
// listings.
type InboxEntry struct {
	Task       *Task           `json:"task"`
	Assignment *TaskAssignment `json:"assignment"`
}

// ArchiveFilter selects which assignments a bulk archive touches.
// Unset fields do not constrain; set fields must all hold.
type ArchiveFilter struct {
	OnlyRead  bool
	OlderThan *time.Time
}
