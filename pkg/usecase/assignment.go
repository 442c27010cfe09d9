package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

// AssignmentUseCase covers a recipient's side of a task: read state,
// archival, unread badge, and the inbox listing. Every operation is
// scoped to the caller's own assignment rows; the caller identity is
// the authenticated one, never client-supplied.
type AssignmentUseCase struct {
	repo  interfaces.Repository
	clock func() time.Time
}

func NewAssignmentUseCase(repo interfaces.Repository, clock func() time.Time) *AssignmentUseCase {
	return &AssignmentUseCase{
		repo:  repo,
		clock: clock,
	}
}

// MarkRead acknowledges the caller's assignment for a task. Repeated
// calls return the original acknowledged timestamp without error.
func (uc *AssignmentUseCase) MarkRead(ctx context.Context, callerID types.UserID, taskID types.TaskID) (*model.TaskAssignment, error) {
	existing, err := uc.repo.Assignment().Get(ctx, taskID, callerID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrNotFound, "assignment not found",
				goerr.V(TaskIDKey, taskID), goerr.V(MemberIDKey, callerID))
		}
		return nil, goerr.Wrap(err, "failed to load assignment", goerr.V(TaskIDKey, taskID))
	}

	a, err := uc.repo.Assignment().MarkRead(ctx, taskID, callerID, uc.clock())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to mark assignment read", goerr.V(TaskIDKey, taskID))
	}

	// Only the first transition out of unread is a state change worth
	// auditing; repeats are no-ops.
	if existing.Status == types.AssignmentStatusUnread && a.AcknowledgedAt != nil {
		writeAudit(ctx, uc.repo, &model.AuditEntry{
			Action:     types.AuditActionAssignmentRead,
			EntityType: "task_assignment",
			EntityID:   taskEntityID(taskID),
			Actor:      callerID,
			Before:     map[string]any{"status": string(existing.Status)},
			After:      map[string]any{"status": string(a.Status), "acknowledged_at": *a.AcknowledgedAt},
		})
	}

	return a, nil
}

// ArchiveOne archives the caller's assignment for a task. Allowed from
// unread or read, and also when the row is flagged
// deleted-for-recipient: archival and deletion are independent tracks.
func (uc *AssignmentUseCase) ArchiveOne(ctx context.Context, callerID types.UserID, taskID types.TaskID) (*model.TaskAssignment, error) {
	a, err := uc.repo.Assignment().Archive(ctx, taskID, callerID, uc.clock())
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrNotFound, "assignment not found",
				goerr.V(TaskIDKey, taskID), goerr.V(MemberIDKey, callerID))
		}
		return nil, goerr.Wrap(err, "failed to archive assignment", goerr.V(TaskIDKey, taskID))
	}

	writeAudit(ctx, uc.repo, &model.AuditEntry{
		Action:     types.AuditActionAssignmentArchived,
		EntityType: "task_assignment",
		EntityID:   taskEntityID(taskID),
		Actor:      callerID,
		After:      map[string]any{"status": string(a.Status)},
	})

	return a, nil
}

// BulkArchiveInput selects which assignments a bulk archive touches.
// At least one filter must be set; when both are, both must hold.
type BulkArchiveInput struct {
	OnlyRead      bool
	OlderThanDays *int
}

// BulkArchive archives the caller's matching assignments. Rows flagged
// deleted-for-recipient are never touched.
func (uc *AssignmentUseCase) BulkArchive(ctx context.Context, callerID types.UserID, input BulkArchiveInput) (int, error) {
	if !input.OnlyRead && input.OlderThanDays == nil {
		return 0, goerr.Wrap(ErrValidation, "at least one archive filter is required",
			goerr.V(MemberIDKey, callerID))
	}

	now := uc.clock()
	filter := model.ArchiveFilter{OnlyRead: input.OnlyRead}
	if input.OlderThanDays != nil {
		days := *input.OlderThanDays
		if days < 0 {
			return 0, goerr.Wrap(ErrValidation, "older-than days must not be negative",
				goerr.V("older_than_days", days))
		}
		cutoff := now.AddDate(0, 0, -days)
		filter.OlderThan = &cutoff
	}

	archived, err := uc.repo.Assignment().BulkArchive(ctx, callerID, filter, now)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to bulk archive", goerr.V(MemberIDKey, callerID))
	}

	if archived > 0 {
		writeAudit(ctx, uc.repo, &model.AuditEntry{
			Action:     types.AuditActionBulkArchived,
			EntityType: "task_assignment",
			EntityID:   string(callerID),
			Actor:      callerID,
			Meta: map[string]any{
				"archived_count": archived,
				"only_read":      input.OnlyRead,
			},
		})
	}

	return archived, nil
}

// UnreadCount returns the caller's unread badge count: unread, not
// archived, not deleted-for-recipient.
func (uc *AssignmentUseCase) UnreadCount(ctx context.Context, callerID types.UserID) (int, error) {
	count, err := uc.repo.Assignment().CountUnread(ctx, callerID)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count unread assignments", goerr.V(MemberIDKey, callerID))
	}

	return count, nil
}

// Inbox returns the caller's assignments joined with their tasks,
// newest first. Deleted-for-recipient rows are included with the flag
// set so a UI can grey them out; archived rows are included only on
// request.
func (uc *AssignmentUseCase) Inbox(ctx context.Context, callerID types.UserID, includeArchived bool) ([]*model.InboxEntry, error) {
	assignments, err := uc.repo.Assignment().ListByRecipient(ctx, callerID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assignments", goerr.V(MemberIDKey, callerID))
	}

	result := []*model.InboxEntry{}
	for _, a := range assignments {
		if !includeArchived && a.Status == types.AssignmentStatusArchived {
			continue
		}

		task, err := uc.repo.Task().Get(ctx, a.TaskID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load task for inbox", goerr.V(TaskIDKey, a.TaskID))
		}
		result = append(result, &model.InboxEntry{Task: task, Assignment: a})
	}

	return result, nil
}
