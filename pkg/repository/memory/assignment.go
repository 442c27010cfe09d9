package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

// assignmentKey is the unique (task, recipient) pair of one row
type assignmentKey struct {
	taskID      types.TaskID
	recipientID types.UserID
}

type assignmentRepository struct {
	mu      sync.RWMutex
	entries map[assignmentKey]*model.TaskAssignment
}

func newAssignmentRepository() *assignmentRepository {
	return &assignmentRepository{
		entries: make(map[assignmentKey]*model.TaskAssignment),
	}
}

func copyAssignment(a *model.TaskAssignment) *model.TaskAssignment {
	copied := &model.TaskAssignment{
		TaskID:      a.TaskID,
		RecipientID: a.RecipientID,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
	}
	if a.AcknowledgedAt != nil {
		at := *a.AcknowledgedAt
		copied.AcknowledgedAt = &at
	}
	if a.ArchivedAt != nil {
		at := *a.ArchivedAt
		copied.ArchivedAt = &at
	}
	if a.DeletedAt != nil {
		at := *a.DeletedAt
		copied.DeletedAt = &at
	}
	return copied
}

// bulkCreate inserts one unread assignment per recipient. Called by the
// task repository during dispatch with its own lock held.
func (r *assignmentRepository) bulkCreate(taskID types.TaskID, recipients []types.UserID, createdAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[types.UserID]bool, len(recipients))
	for _, recipientID := range recipients {
		key := assignmentKey{taskID: taskID, recipientID: recipientID}
		if _, exists := r.entries[key]; exists || seen[recipientID] {
			return goerr.New("duplicate assignment",
				goerr.V("taskID", taskID), goerr.V("recipientID", recipientID))
		}
		seen[recipientID] = true
	}

	for _, recipientID := range recipients {
		key := assignmentKey{taskID: taskID, recipientID: recipientID}
		r.entries[key] = &model.TaskAssignment{
			TaskID:      taskID,
			RecipientID: recipientID,
			Status:      types.AssignmentStatusUnread,
			CreatedAt:   createdAt,
		}
	}

	return nil
}

// retractAll re-checks acknowledgement and flags every assignment of
// the task deleted-for-recipient under one lock acquisition.
func (r *assignmentRepository) retractAll(taskID types.TaskID, deletedAt time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.entries {
		if a.TaskID == taskID && a.AcknowledgedAt != nil {
			return 0, goerr.Wrap(interfaces.ErrTaskAcknowledged, "cannot retract an acknowledged task",
				goerr.V("taskID", taskID), goerr.V("recipientID", a.RecipientID))
		}
	}

	affected := 0
	for _, a := range r.entries {
		if a.TaskID != taskID {
			continue
		}
		at := deletedAt
		a.DeletedAt = &at
		affected++
	}

	return affected, nil
}

func (r *assignmentRepository) Get(ctx context.Context, taskID types.TaskID, recipientID types.UserID) (*model.TaskAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.entries[assignmentKey{taskID: taskID, recipientID: recipientID}]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "assignment not found",
			goerr.V("taskID", taskID), goerr.V("recipientID", recipientID))
	}

	return copyAssignment(a), nil
}

func (r *assignmentRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.TaskAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*model.TaskAssignment{}
	for _, a := range r.entries {
		if a.TaskID == taskID {
			result = append(result, copyAssignment(a))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].RecipientID < result[j].RecipientID
	})

	return result, nil
}

func (r *assignmentRepository) ListByRecipient(ctx context.Context, recipientID types.UserID) ([]*model.TaskAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*model.TaskAssignment{}
	for _, a := range r.entries {
		if a.RecipientID == recipientID {
			result = append(result, copyAssignment(a))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TaskID > result[j].TaskID
	})

	return result, nil
}

func (r *assignmentRepository) MarkRead(ctx context.Context, taskID types.TaskID, recipientID types.UserID, at time.Time) (*model.TaskAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.entries[assignmentKey{taskID: taskID, recipientID: recipientID}]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "assignment not found",
			goerr.V("taskID", taskID), goerr.V("recipientID", recipientID))
	}

	if a.Status == types.AssignmentStatusUnread {
		a.Status = types.AssignmentStatusRead
		if a.AcknowledgedAt == nil {
			ackAt := at
			a.AcknowledgedAt = &ackAt
		}
	}

	return copyAssignment(a), nil
}

func (r *assignmentRepository) Archive(ctx context.Context, taskID types.TaskID, recipientID types.UserID, at time.Time) (*model.TaskAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.entries[assignmentKey{taskID: taskID, recipientID: recipientID}]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "assignment not found",
			goerr.V("taskID", taskID), goerr.V("recipientID", recipientID))
	}

	if a.Status != types.AssignmentStatusArchived {
		a.Status = types.AssignmentStatusArchived
		archivedAt := at
		a.ArchivedAt = &archivedAt
	}

	return copyAssignment(a), nil
}

func (r *assignmentRepository) BulkArchive(ctx context.Context, recipientID types.UserID, filter model.ArchiveFilter, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	archived := 0
	for _, a := range r.entries {
		if a.RecipientID != recipientID {
			continue
		}
		if a.Status == types.AssignmentStatusArchived || a.DeletedAt != nil {
			continue
		}
		if filter.OnlyRead && a.Status != types.AssignmentStatusRead {
			continue
		}
		if filter.OlderThan != nil && !a.CreatedAt.Before(*filter.OlderThan) {
			continue
		}

		a.Status = types.AssignmentStatusArchived
		archivedAt := at
		a.ArchivedAt = &archivedAt
		archived++
	}

	return archived, nil
}

func (r *assignmentRepository) CountUnread(ctx context.Context, recipientID types.UserID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, a := range r.entries {
		if a.RecipientID == recipientID && a.Status == types.AssignmentStatusUnread && a.DeletedAt == nil {
			count++
		}
	}

	return count, nil
}
