package usecase

import (
	"context"
	"strconv"

	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
	"github.com/mateh-lab/taskcast/pkg/utils/async"
	"github.com/mateh-lab/taskcast/pkg/utils/logging"
)

// writeAudit appends an audit entry without blocking or failing the
// primary operation. A write failure is a monitoring gap, not a
// correctness bug: it logs a warning and nothing else.
func writeAudit(ctx context.Context, repo interfaces.Repository, e *model.AuditEntry) {
	async.Dispatch(ctx, func(ctx context.Context) error {
		if err := repo.Audit().Append(ctx, e); err != nil {
			logging.From(ctx).Warn("failed to write audit entry",
				"action", e.Action,
				"entity_id", e.EntityID,
				"error", err.Error(),
			)
		}
		return nil
	})
}

func taskEntityID(id types.TaskID) string {
	return strconv.FormatInt(int64(id), 10)
}
