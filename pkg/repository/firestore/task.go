package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type taskRepository struct {
	client           *firestore.Client
	collectionPrefix string
	assignment       *assignmentRepository
}

func (r *taskRepository) tasksCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_tasks"
	}
	return "tasks"
}

func (r *taskRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *taskRepository) taskCounterDoc() string {
	return "task_counter"
}

func (r *taskRepository) getNextID(ctx context.Context) (types.TaskID, error) {
	counterRef := r.client.Collection(r.counterCollection()).Doc(r.taskCounterDoc())

	var nextID int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				nextID = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextID,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		val, ok := currentValue.(int64)
		if !ok {
			return goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
		}
		nextID = val + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextID},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID")
	}

	return types.TaskID(nextID), nil
}

func (r *taskRepository) CreateWithAssignments(ctx context.Context, t *model.Task, recipients []types.UserID) (*model.Task, error) {
	// Set on a duplicate recipient would silently merge the two
	// writes, so reject duplicates before touching the store.
	seen := make(map[types.UserID]bool, len(recipients))
	for _, recipientID := range recipients {
		if seen[recipientID] {
			return nil, goerr.New("duplicate recipient", goerr.V("recipientID", recipientID))
		}
		seen[recipientID] = true
	}

	nextID, err := r.getNextID(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get next ID")
	}

	now := time.Now().UTC()
	created := &model.Task{
		ID:        nextID,
		Body:      t.Body,
		SenderID:  t.SenderID,
		CreatedAt: now,
	}

	// Task and assignments land in one transaction; a failed
	// assignment write rolls back the task document.
	err = r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		taskRef := r.client.Collection(r.tasksCollection()).Doc(fmt.Sprintf("%d", created.ID))
		if err := tx.Set(taskRef, created); err != nil {
			return goerr.Wrap(err, "failed to set task document")
		}

		for _, recipientID := range recipients {
			a := &model.TaskAssignment{
				TaskID:      created.ID,
				RecipientID: recipientID,
				Status:      types.AssignmentStatusUnread,
				CreatedAt:   now,
			}
			ref := r.client.Collection(r.assignment.assignmentsCollection()).Doc(assignmentDocID(created.ID, recipientID))
			if err := tx.Set(ref, a); err != nil {
				return goerr.Wrap(err, "failed to set assignment document",
					goerr.V("recipientID", recipientID))
			}
		}

		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create task with assignments", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *taskRepository) Get(ctx context.Context, id types.TaskID) (*model.Task, error) {
	docSnap, err := r.client.Collection(r.tasksCollection()).Doc(fmt.Sprintf("%d", id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get task", goerr.V("id", id))
	}

	var t model.Task
	if err := docSnap.DataTo(&t); err != nil {
		return nil, goerr.Wrap(err, "failed to decode task", goerr.V("id", id))
	}

	return &t, nil
}

func (r *taskRepository) ListBySender(ctx context.Context, senderID types.UserID) ([]*model.Task, error) {
	iter := r.client.Collection(r.tasksCollection()).
		Where("sender_id", "==", string(senderID)).
		OrderBy("id", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	tasks := []*model.Task{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate tasks", goerr.V("senderID", senderID))
		}

		var t model.Task
		if err := docSnap.DataTo(&t); err != nil {
			return nil, goerr.Wrap(err, "failed to decode task")
		}
		tasks = append(tasks, &t)
	}

	return tasks, nil
}

func (r *taskRepository) Retract(ctx context.Context, id types.TaskID, deletedAt time.Time) (int, error) {
	taskRef := r.client.Collection(r.tasksCollection()).Doc(fmt.Sprintf("%d", id))

	var affected int
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		affected = 0

		doc, err := tx.Get(taskRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get task", goerr.V("id", id))
		}

		var t model.Task
		if err := doc.DataTo(&t); err != nil {
			return goerr.Wrap(err, "failed to decode task", goerr.V("id", id))
		}
		if t.DeletedAt != nil {
			return goerr.Wrap(interfaces.ErrTaskAlreadyRetracted, "task already retracted", goerr.V("id", id))
		}

		// Fresh in-transaction read of the assignments: the
		// acknowledgement guard must not pass on stale state.
		q := r.client.Collection(r.assignment.assignmentsCollection()).
			Where("task_id", "==", int64(id))
		docs, err := tx.Documents(q).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to read assignments", goerr.V("id", id))
		}

		refs := make([]*firestore.DocumentRef, 0, len(docs))
		for _, aDoc := range docs {
			var a model.TaskAssignment
			if err := aDoc.DataTo(&a); err != nil {
				return goerr.Wrap(err, "failed to decode assignment", goerr.V("id", id))
			}
			if a.AcknowledgedAt != nil {
				return goerr.Wrap(interfaces.ErrTaskAcknowledged, "cannot retract an acknowledged task",
					goerr.V("id", id), goerr.V("recipientID", a.RecipientID))
			}
			refs = append(refs, aDoc.Ref)
		}

		if err := tx.Update(taskRef, []firestore.Update{
			{Path: "deleted_at", Value: deletedAt},
		}); err != nil {
			return goerr.Wrap(err, "failed to mark task deleted", goerr.V("id", id))
		}

		for _, ref := range refs {
			if err := tx.Update(ref, []firestore.Update{
				{Path: "deleted_at", Value: deletedAt},
			}); err != nil {
				return goerr.Wrap(err, "failed to flag assignment deleted", goerr.V("id", id))
			}
		}

		affected = len(refs)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return affected, nil
}
