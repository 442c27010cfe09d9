package model

import (
	"time"

	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

// RetractionWindow is how long after dispatch a sender may retract a
// task, provided no recipient has acknowledged it.
const RetractionWindow = time.Hour

// Task is one broadcast message. Retraction is a soft delete: the row
// stays with DeletedAt set so recipients keep an explainable tombstone.
type Task struct {
	ID        types.TaskID `json:"id" firestore:"id" db:"id"`
	Body      string       `json:"body" firestore:"body" db:"body"`
	SenderID  types.UserID `json:"sender_id" firestore:"sender_id" db:"sender_id"`
	CreatedAt time.Time    `json:"created_at" firestore:"created_at" db:"created_at"`
	DeletedAt *time.Time   `json:"deleted_at,omitempty" firestore:"deleted_at" db:"deleted_at"`
}

// IsDeleted reports whether the task has been retracted
func (t *Task) IsDeleted() bool {
	return t.DeletedAt != nil
}

// WithinRetractionWindow reports whether the task can still be
// retracted at the given instant. The boundary is inclusive.
func (t *Task) WithinRetractionWindow(now time.Time) bool {
	return now.Sub(t.CreatedAt) <= RetractionWindow
}

// TaskSummary is a sender-side view of one task with progress
// aggregates over its assignments.
type TaskSummary struct {
	Task          *Task `json:"task"`
	Recipients    int   `json:"recipients"`
	ReadCount     int   `json:"read_count"`
	ArchivedCount int   `json:"archived_count"`
}
