package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

type BroadcastUseCase struct {
	repo     interfaces.Repository
	resolver *Resolver
	clock    func() time.Time
}

func NewBroadcastUseCase(repo interfaces.Repository, resolver *Resolver, clock func() time.Time) *BroadcastUseCase {
	return &BroadcastUseCase{
		repo:     repo,
		resolver: resolver,
		clock:    clock,
	}
}

// PreviewRecipients computes a non-committal preview of who a
// broadcast would reach. It runs the same resolution as DispatchTask
// and persists nothing. A count above one is the caller's cue to show
// a confirmation step.
func (uc *BroadcastUseCase) PreviewRecipients(ctx context.Context, sender *model.Member, mode types.TargetMode, explicitIDs []types.UserID) (*model.RecipientSet, error) {
	return uc.resolver.Resolve(ctx, sender, mode, explicitIDs)
}

// DispatchResult is what a successful dispatch returns.
type DispatchResult struct {
	Task               *model.Task
	RecipientsAffected int
}

// DispatchTask resolves recipients and atomically creates the task
// plus one unread assignment per recipient. Recipients are always
// re-resolved here; a set computed at preview time is never trusted.
func (uc *BroadcastUseCase) DispatchTask(ctx context.Context, sender *model.Member, body string, mode types.TargetMode, explicitIDs []types.UserID) (*DispatchResult, error) {
	if strings.TrimSpace(body) == "" {
		return nil, goerr.Wrap(ErrValidation, "task body is empty", goerr.V(MemberIDKey, sender.ID))
	}

	resolved, err := uc.resolver.Resolve(ctx, sender, mode, explicitIDs)
	if err != nil {
		return nil, err
	}
	if resolved.Count() == 0 {
		return nil, goerr.Wrap(ErrValidation, "resolved recipient set is empty",
			goerr.V(MemberIDKey, sender.ID), goerr.V(TargetModeKey, mode))
	}

	task := &model.Task{
		Body:     body,
		SenderID: sender.ID,
	}
	created, err := uc.repo.Task().CreateWithAssignments(ctx, task, resolved.IDs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to dispatch task", goerr.V(MemberIDKey, sender.ID))
	}

	writeAudit(ctx, uc.repo, &model.AuditEntry{
		Action:     types.AuditActionTaskDispatched,
		EntityType: "task",
		EntityID:   taskEntityID(created.ID),
		Actor:      sender.ID,
		After: map[string]any{
			"body":      created.Body,
			"sender_id": string(created.SenderID),
		},
		Meta: map[string]any{
			"target_mode": string(mode),
			"recipients":  resolved.Count(),
			"by_role":     roleBreakdown(resolved),
			"by_unit":     unitBreakdown(resolved),
		},
	})

	return &DispatchResult{
		Task:               created,
		RecipientsAffected: resolved.Count(),
	}, nil
}

// RetractResult is what a successful retraction returns.
type RetractResult struct {
	RecipientsAffected int
	DeletedAt          time.Time
}

// RetractTask soft-deletes a task the caller sent, within the
// retraction window and only while no recipient has acknowledged it.
// The acknowledgement and already-deleted preconditions are re-checked
// inside the store transaction; a change since the guard read surfaces
// as a conflict.
func (uc *BroadcastUseCase) RetractTask(ctx context.Context, callerID types.UserID, taskID types.TaskID) (*RetractResult, error) {
	task, err := uc.repo.Task().Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V(TaskIDKey, taskID))
		}
		return nil, goerr.Wrap(err, "failed to load task", goerr.V(TaskIDKey, taskID))
	}

	if task.SenderID != callerID {
		return nil, goerr.Wrap(ErrForbidden, "only the sender may delete a task",
			goerr.V(TaskIDKey, taskID), goerr.V(MemberIDKey, callerID))
	}
	if task.IsDeleted() {
		return nil, goerr.Wrap(ErrValidation, "task already deleted", goerr.V(TaskIDKey, taskID))
	}

	now := uc.clock()
	if !task.WithinRetractionWindow(now) {
		return nil, goerr.Wrap(ErrValidation, "retraction window expired",
			goerr.V(TaskIDKey, taskID), goerr.V("created_at", task.CreatedAt))
	}

	assignments, err := uc.repo.Assignment().ListByTask(ctx, taskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load assignments", goerr.V(TaskIDKey, taskID))
	}
	for _, a := range assignments {
		if a.IsAcknowledged() {
			return nil, goerr.Wrap(ErrValidation, "cannot delete an acknowledged task",
				goerr.V(TaskIDKey, taskID), goerr.V("recipient_id", a.RecipientID))
		}
	}

	affected, err := uc.repo.Task().Retract(ctx, taskID, now)
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrTaskAcknowledged),
			errors.Is(err, interfaces.ErrTaskAlreadyRetracted):
			// The guard passed moments ago; the transaction saw newer state.
			return nil, goerr.Wrap(ErrConflict, "task state changed during retraction",
				goerr.V(TaskIDKey, taskID))
		case errors.Is(err, interfaces.ErrNotFound):
			return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V(TaskIDKey, taskID))
		default:
			return nil, goerr.Wrap(err, "failed to retract task", goerr.V(TaskIDKey, taskID))
		}
	}

	writeAudit(ctx, uc.repo, &model.AuditEntry{
		Action:     types.AuditActionTaskRetracted,
		EntityType: "task",
		EntityID:   taskEntityID(taskID),
		Actor:      callerID,
		Before:     map[string]any{"deleted_at": nil},
		After:      map[string]any{"deleted_at": now},
		Meta:       map[string]any{"recipients_affected": affected},
	})

	return &RetractResult{
		RecipientsAffected: affected,
		DeletedAt:          now,
	}, nil
}

// TaskView is one task as seen by a specific caller. Assignment is nil
// when the caller is the sender rather than a recipient.
type TaskView struct {
	Task       *model.Task           `json:"task"`
	Assignment *model.TaskAssignment `json:"assignment,omitempty"`
}

// GetTask returns a task visible to the caller: the sender sees their
// own task, a recipient sees it with their assignment. Anyone else
// gets not-found rather than a hint the task exists.
func (uc *BroadcastUseCase) GetTask(ctx context.Context, callerID types.UserID, taskID types.TaskID) (*TaskView, error) {
	task, err := uc.repo.Task().Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V(TaskIDKey, taskID))
		}
		return nil, goerr.Wrap(err, "failed to load task", goerr.V(TaskIDKey, taskID))
	}

	if task.SenderID == callerID {
		return &TaskView{Task: task}, nil
	}

	assignment, err := uc.repo.Assignment().Get(ctx, taskID, callerID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V(TaskIDKey, taskID))
		}
		return nil, goerr.Wrap(err, "failed to load assignment", goerr.V(TaskIDKey, taskID))
	}

	return &TaskView{Task: task, Assignment: assignment}, nil
}

// ListSent returns the caller's dispatched tasks with per-task
// progress aggregates, newest first.
func (uc *BroadcastUseCase) ListSent(ctx context.Context, senderID types.UserID) ([]*model.TaskSummary, error) {
	tasks, err := uc.repo.Task().ListBySender(ctx, senderID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list sent tasks", goerr.V(MemberIDKey, senderID))
	}

	result := make([]*model.TaskSummary, 0, len(tasks))
	for _, t := range tasks {
		assignments, err := uc.repo.Assignment().ListByTask(ctx, t.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load assignments", goerr.V(TaskIDKey, t.ID))
		}

		summary := &model.TaskSummary{
			Task:       t,
			Recipients: len(assignments),
		}
		for _, a := range assignments {
			if a.IsAcknowledged() {
				summary.ReadCount++
			}
			if a.Status == types.AssignmentStatusArchived {
				summary.ArchivedCount++
			}
		}
		result = append(result, summary)
	}

	return result, nil
}

func roleBreakdown(rs *model.RecipientSet) map[string]int {
	out := make(map[string]int, len(rs.ByRole))
	for role, n := range rs.ByRole {
		out[string(role)] = n
	}
	return out
}

func unitBreakdown(rs *model.RecipientSet) map[string]int {
	out := make(map[string]int, len(rs.ByUnit))
	for unit, n := range rs.ByUnit {
		out[string(unit)] = n
	}
	return out
}
