package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
)

type Firestore struct {
	client     *firestore.Client
	task       *taskRepository
	assignment *assignmentRepository
	member     *memberRepository
	unit       *unitRepository
	audit      *auditRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.task.collectionPrefix = prefix
		f.assignment.collectionPrefix = prefix
		f.member.collectionPrefix = prefix
		f.unit.collectionPrefix = prefix
		f.audit.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	assignmentRepo := &assignmentRepository{client: client}
	f := &Firestore{
		client:     client,
		task:       &taskRepository{client: client, assignment: assignmentRepo},
		assignment: assignmentRepo,
		member:     &memberRepository{client: client},
		unit:       &unitRepository{client: client},
		audit:      &auditRepository{client: client},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Task() interfaces.TaskRepository {
	return f.task
}

func (f *Firestore) Assignment() interfaces.AssignmentRepository {
	return f.assignment
}

func (f *Firestore) Member() interfaces.MemberRepository {
	return f.member
}

func (f *Firestore) Unit() interfaces.UnitRepository {
	return f.unit
}

func (f *Firestore) Audit() interfaces.AuditRepository {
	return f.audit
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
