package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mateh-lab/taskcast/pkg/domain/model"
)

type auditRepository struct {
	mu      sync.RWMutex
	entries []*model.AuditEntry
}

func newAuditRepository() *auditRepository {
	return &auditRepository{}
}

func copyPayload(p map[string]any) map[string]any {
	if p == nil {
		return nil
	}
	copied := make(map[string]any, len(p))
	for k, v := range p {
		copied[k] = v
	}
	return copied
}

func copyAuditEntry(e *model.AuditEntry) *model.AuditEntry {
	return &model.AuditEntry{
		ID:         e.ID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Actor:      e.Actor,
		Before:     copyPayload(e.Before),
		After:      copyPayload(e.After),
		Meta:       copyPayload(e.Meta),
		CreatedAt:  e.CreatedAt,
	}
}

func (r *auditRepository) Append(ctx context.Context, e *model.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyAuditEntry(e)
	if stored.ID == "" {
		stored.ID = model.NewAuditEntryID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.entries = append(r.entries, stored)
	return nil
}

func (r *auditRepository) List(ctx context.Context, limit int) ([]*model.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.AuditEntry, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		result = append(result, copyAuditEntry(r.entries[i]))
	}

	return result, nil
}
