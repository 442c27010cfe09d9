package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"google.golang.org/api/iterator"
)

type auditRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *auditRepository) auditCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_audit_log"
	}
	return "audit_log"
}

func (r *auditRepository) Append(ctx context.Context, e *model.AuditEntry) error {
	stored := *e
	if stored.ID == "" {
		stored.ID = model.NewAuditEntryID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	_, err := r.client.Collection(r.auditCollection()).Doc(stored.ID).Create(ctx, &stored)
	if err != nil {
		return goerr.Wrap(err, "failed to append audit entry", goerr.V("action", e.Action))
	}

	return nil
}

func (r *auditRepository) List(ctx context.Context, limit int) ([]*model.AuditEntry, error) {
	q := r.client.Collection(r.auditCollection()).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	result := []*model.AuditEntry{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate audit entries")
		}

		var e model.AuditEntry
		if err := docSnap.DataTo(&e); err != nil {
			return nil, goerr.Wrap(err, "failed to decode audit entry")
		}
		result = append(result, &e)
	}

	return result, nil
}
