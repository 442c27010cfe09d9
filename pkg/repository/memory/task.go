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

type taskRepository struct {
	mu         sync.RWMutex
	tasks      map[types.TaskID]*model.Task
	nextID     types.TaskID
	assignment *assignmentRepository
}

func newTaskRepository(assignment *assignmentRepository) *taskRepository {
	return &taskRepository{
		tasks:      make(map[types.TaskID]*model.Task),
		nextID:     1,
		assignment: assignment,
	}
}

func copyTask(t *model.Task) *model.Task {
	copied := &model.Task{
		ID:        t.ID,
		Body:      t.Body,
		SenderID:  t.SenderID,
		CreatedAt: t.CreatedAt,
	}
	if t.DeletedAt != nil {
		deletedAt := *t.DeletedAt
		copied.DeletedAt = &deletedAt
	}
	return copied
}

func (r *taskRepository) CreateWithAssignments(ctx context.Context, t *model.Task, recipients []types.UserID) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyTask(t)
	created.ID = r.nextID
	created.CreatedAt = time.Now().UTC()
	created.DeletedAt = nil

	if err := r.assignment.bulkCreate(created.ID, recipients, created.CreatedAt); err != nil {
		// No task row has been stored yet, so nothing to roll back.
		return nil, goerr.Wrap(err, "failed to create assignments", goerr.V("taskID", created.ID))
	}

	r.tasks[created.ID] = created
	r.nextID++

	return copyTask(created), nil
}

func (r *taskRepository) Get(ctx context.Context, id types.TaskID) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.tasks[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("id", id))
	}

	return copyTask(t), nil
}

func (r *taskRepository) ListBySender(ctx context.Context, senderID types.UserID) ([]*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*model.Task{}
	for _, t := range r.tasks {
		if t.SenderID == senderID {
			result = append(result, copyTask(t))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID > result[j].ID
	})

	return result, nil
}

func (r *taskRepository) Retract(ctx context.Context, id types.TaskID, deletedAt time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, exists := r.tasks[id]
	if !exists {
		return 0, goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("id", id))
	}
	if t.DeletedAt != nil {
		return 0, goerr.Wrap(interfaces.ErrTaskAlreadyRetracted, "task already retracted", goerr.V("id", id))
	}

	// Flags assignments under the assignment lock; the acknowledgement
	// re-check and the flag update happen as one step.
	affected, err := r.assignment.retractAll(id, deletedAt)
	if err != nil {
		return 0, err
	}

	t.DeletedAt = &deletedAt
	return affected, nil
}
