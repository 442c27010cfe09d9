package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type assignmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *assignmentRepository) assignmentsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_task_assignments"
	}
	return "task_assignments"
}

// assignmentDocID keys documents by the unique (task, recipient) pair.
func assignmentDocID(taskID types.TaskID, recipientID types.UserID) string {
	return fmt.Sprintf("%d_%s", taskID, recipientID)
}

func (r *assignmentRepository) docRef(taskID types.TaskID, recipientID types.UserID) *firestore.DocumentRef {
	return r.client.Collection(r.assignmentsCollection()).Doc(assignmentDocID(taskID, recipientID))
}

func (r *assignmentRepository) Get(ctx context.Context, taskID types.TaskID, recipientID types.UserID) (*model.TaskAssignment, error) {
	docSnap, err := r.docRef(taskID, recipientID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "assignment not found",
				goerr.V("taskID", taskID), goerr.V("recipientID", recipientID))
		}
		return nil, goerr.Wrap(err, "failed to get assignment",
			goerr.V("taskID", taskID), goerr.V("recipientID", recipientID))
	}

	var a model.TaskAssignment
	if err := docSnap.DataTo(&a); err != nil {
		return nil, goerr.Wrap(err, "failed to decode assignment")
	}

	return &a, nil
}

func (r *assignmentRepository) listByQuery(ctx context.Context, q firestore.Query) ([]*model.TaskAssignment, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	result := []*model.TaskAssignment{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assignments")
		}

		var a model.TaskAssignment
		if err := docSnap.DataTo(&a); err != nil {
			return nil, goerr.Wrap(err, "failed to decode assignment")
		}
		result = append(result, &a)
	}

	return result, nil
}

func (r *assignmentRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.TaskAssignment, error) {
	q := r.client.Collection(r.assignmentsCollection()).
		Where("task_id", "==", int64(taskID)).
		OrderBy("recipient_id", firestore.Asc)
	return r.listByQuery(ctx, q)
}

func (r *assignmentRepository) ListByRecipient(ctx context.Context, recipientID types.UserID) ([]*model.TaskAssignment, error) {
	q := r.client.Collection(r.assignmentsCollection()).
		Where("recipient_id", "==", string(recipientID)).
		OrderBy("task_id", firestore.Desc)
	return r.listByQuery(ctx, q)
}

func (r *assignmentRepository) MarkRead(ctx context.Context, taskID types.TaskID, recipientID types.UserID, at time.Time) (*model.TaskAssignment, error) {
	ref := r.docRef(taskID, recipientID)

	var result model.TaskAssignment
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrNotFound, "assignment not found",
					goerr.V("taskID", taskID), goerr.V("recipientID", recipientID))
			}
			return goerr.Wrap(err, "failed to get assignment")
		}

		var a model.TaskAssignment
		if err := doc.DataTo(&a); err != nil {
			return goerr.Wrap(err, "failed to decode assignment")
		}

		if a.Status == types.AssignmentStatusUnread {
			a.Status = types.AssignmentStatusRead
			if a.AcknowledgedAt == nil {
				ackAt := at
				a.AcknowledgedAt = &ackAt
			}
			if err := tx.Set(ref, &a); err != nil {
				return goerr.Wrap(err, "failed to update assignment")
			}
		}

		result = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *assignmentRepository) Archive(ctx context.Context, taskID types.TaskID, recipientID types.UserID, at time.Time) (*model.TaskAssignment, error) {
	ref := r.docRef(taskID, recipientID)

	var result model.TaskAssignment
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrNotFound, "assignment not found",
					goerr.V("taskID", taskID), goerr.V("recipientID", recipientID))
			}
			return goerr.Wrap(err, "failed to get assignment")
		}

		var a model.TaskAssignment
		if err := doc.DataTo(&a); err != nil {
			return goerr.Wrap(err, "failed to decode assignment")
		}

		if a.Status != types.AssignmentStatusArchived {
			a.Status = types.AssignmentStatusArchived
			archivedAt := at
			a.ArchivedAt = &archivedAt
			if err := tx.Set(ref, &a); err != nil {
				return goerr.Wrap(err, "failed to update assignment")
			}
		}

		result = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *assignmentRepository) BulkArchive(ctx context.Context, recipientID types.UserID, filter model.ArchiveFilter, at time.Time) (int, error) {
	q := r.client.Collection(r.assignmentsCollection()).
		Where("recipient_id", "==", string(recipientID))

	// Remaining filter conditions apply client-side to keep the query
	// on the recipient index.
	candidates, err := r.listByQuery(ctx, q)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to query assignments", goerr.V("recipientID", recipientID))
	}

	archived := 0
	for _, a := range candidates {
		if a.Status == types.AssignmentStatusArchived || a.DeletedAt != nil {
			continue
		}
		if filter.OnlyRead && a.Status != types.AssignmentStatusRead {
			continue
		}
		if filter.OlderThan != nil && !a.CreatedAt.Before(*filter.OlderThan) {
			continue
		}

		ref := r.docRef(a.TaskID, a.RecipientID)
		if _, err := ref.Update(ctx, []firestore.Update{
			{Path: "status", Value: string(types.AssignmentStatusArchived)},
			{Path: "archived_at", Value: at},
		}); err != nil {
			return archived, goerr.Wrap(err, "failed to archive assignment",
				goerr.V("taskID", a.TaskID), goerr.V("recipientID", recipientID))
		}
		archived++
	}

	return archived, nil
}

func (r *assignmentRepository) CountUnread(ctx context.Context, recipientID types.UserID) (int, error) {
	q := r.client.Collection(r.assignmentsCollection()).
		Where("recipient_id", "==", string(recipientID)).
		Where("status", "==", string(types.AssignmentStatusUnread)).
		Where("deleted_at", "==", nil)

	results, err := q.NewAggregationQuery().WithCount("count").Get(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count unread assignments", goerr.V("recipientID", recipientID))
	}

	value, ok := results["count"]
	if !ok {
		return 0, goerr.New("count aggregation missing from result")
	}
	countValue, ok := value.(*firestorepb.Value)
	if !ok {
		return 0, goerr.New("unexpected aggregation result type")
	}

	return int(countValue.GetIntegerValue()), nil
}
