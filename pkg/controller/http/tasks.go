package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/model/auth"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
	"github.com/mateh-lab/taskcast/pkg/usecase"
)

const timeFormat = time.RFC3339

// caller extracts the authenticated member placed by the auth
// middleware. A missing member means the route was wired outside the
// middleware, which is a server bug, not a client one.
func caller(r *http.Request) (*model.Member, error) {
	member, ok := auth.MemberFromContext(r.Context())
	if !ok {
		return nil, goerr.Wrap(usecase.ErrUnauthorized, "no authenticated member in context")
	}
	return member, nil
}

func taskIDParam(r *http.Request) (types.TaskID, error) {
	raw := chi.URLParam(r, "taskID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(usecase.ErrValidation, "invalid task ID", goerr.V("task_id", raw))
	}
	return types.TaskID(id), nil
}

type targetRequest struct {
	Body         string   `json:"body,omitempty"`
	TargetMode   string   `json:"target_mode"`
	RecipientIDs []string `json:"recipient_ids,omitempty"`
}

func (req *targetRequest) recipients() []types.UserID {
	ids := make([]types.UserID, 0, len(req.RecipientIDs))
	for _, id := range req.RecipientIDs {
		ids = append(ids, types.UserID(id))
	}
	return ids
}

type previewResponse struct {
	Recipients []types.UserID       `json:"recipients"`
	Count      int                  `json:"count"`
	ByRole     map[types.Role]int   `json:"by_role"`
	ByUnit     map[types.UnitID]int `json:"by_unit"`
}

// previewHandler computes who a broadcast would reach without sending
func previewHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sender, err := caller(r)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		var req targetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrValidation, "invalid request body"))
			return
		}

		rs, err := uc.Broadcast.PreviewRecipients(r.Context(), sender,
			types.TargetMode(req.TargetMode), req.recipients())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, previewResponse{
			Recipients: rs.IDs,
			Count:      rs.Count(),
			ByRole:     rs.ByRole,
			ByUnit:     rs.ByUnit,
		})
	}
}

type dispatchResponse struct {
	Task               *model.Task `json:"task"`
	RecipientsAffected int         `json:"recipients_affected"`
}

// dispatchHandler creates a task and fans it out to the resolved
// recipients
func dispatchHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sender, err := caller(r)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		var req targetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrValidation, "invalid request body"))
			return
		}

		result, err := uc.Broadcast.DispatchTask(r.Context(), sender, req.Body,
			types.TargetMode(req.TargetMode), req.recipients())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusCreated, dispatchResponse{
			Task:               result.Task,
			RecipientsAffected: result.RecipientsAffected,
		})
	}
}

type retractResponse struct {
	RecipientsAffected int    `json:"recipients_affected"`
	DeletedAt          string `json:"deleted_at"`
}

// retractHandler soft-deletes a task the caller sent
func retractHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := caller(r)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		taskID, err := taskIDParam(r)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		result, err := uc.Broadcast.RetractTask(r.Context(), member.ID, taskID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, retractResponse{
			RecipientsAffected: result.RecipientsAffected,
			DeletedAt:          result.DeletedAt.Format(timeFormat),
		})
	}
}

// markReadHandler acknowledges the caller's assignment
func markReadHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := caller(r)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		taskID, err := taskIDParam(r)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		a, err := uc.Assignment.MarkRead(r.Context(), member.ID, taskID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, a)
	}
}

// archiveOneHandler archives the caller's assignment
func archiveOneHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := caller(r)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		taskID, err := taskIDParam(r)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		a, err := uc.Assignment.ArchiveOne(r.Context(), member.ID, taskID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, a)
	}
}

type bulkArchiveRequest struct {
	OnlyRead      bool `json:"only_read,omitempty"`
	OlderThanDays *int `json:"older_than_days,omitempty"`
}

type bulkArchiveResponse struct {
	ArchivedCount int `json:"archived_count"`
}

// bulkArchiveHandler archives the caller's matching assignments
func bulkArchiveHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := caller(r)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		var req bulkArchiveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrValidation, "invalid request body"))
			return
		}

		archived, err := uc.Assignment.BulkArchive(r.Context(), member.ID, usecase.BulkArchiveInput{
			OnlyRead:      req.OnlyRead,
			OlderThanDays: req.OlderThanDays,
		})
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, bulkArchiveResponse{ArchivedCount: archived})
	}
}

type unreadCountResponse struct {
	Count int `json:"count"`
}

// unreadCountHandler returns the caller's unread badge count
func unreadCountHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := caller(r)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		count, err := uc.Assignment.UnreadCount(r.Context(), member.ID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, unreadCountResponse{Count: count})
	}
}

type inboxResponse struct {
	Entries []*model.InboxEntry `json:"entries"`
}

// inboxHandler lists the caller's received tasks
func inboxHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := caller(r)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		includeArchived := r.URL.Query().Get("include_archived") == "true"

		entries, err := uc.Assignment.Inbox(r.Context(), member.ID, includeArchived)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, inboxResponse{Entries: entries})
	}
}

type sentResponse struct {
	Tasks []*model.TaskSummary `json:"tasks"`
}

// sentHandler lists the caller's dispatched tasks with progress
// aggregates
func sentHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := caller(r)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		summaries, err := uc.Broadcast.ListSent(r.Context(), member.ID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, sentResponse{Tasks: summaries})
	}
}

// getTaskHandler returns one task as seen by the caller
func getTaskHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := caller(r)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		taskID, err := taskIDParam(r)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		view, err := uc.Broadcast.GetTask(r.Context(), member.ID, taskID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, view)
	}
}
