package interfaces

import (
	"context"

	"github.com/mateh-lab/taskcast/pkg/domain/model"
)

// AuditRepository is an append-only sink for audit entries.
type AuditRepository interface {
	// Append stores one audit entry
	Append(ctx context.Context, e *model.AuditEntry) error

	// List retrieves audit entries, newest first, up to limit
	// (0 means no limit)
	List(ctx context.Context, limit int) ([]*model.AuditEntry, error)
}
