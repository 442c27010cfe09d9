package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

type auditRepository struct {
	db *sqlx.DB
}

type auditRow struct {
	ID         string    `db:"id"`
	Action     string    `db:"action"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	Actor      string    `db:"actor"`
	BeforeJSON []byte    `db:"before_json"`
	AfterJSON  []byte    `db:"after_json"`
	MetaJSON   []byte    `db:"meta_json"`
	CreatedAt  time.Time `db:"created_at"`
}

func marshalPayload(p map[string]any) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func unmarshalPayload(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var p map[string]any
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *auditRepository) Append(ctx context.Context, e *model.AuditEntry) error {
	id := e.ID
	if id == "" {
		id = model.NewAuditEntryID()
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	before, err := marshalPayload(e.Before)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal before payload")
	}
	after, err := marshalPayload(e.After)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal after payload")
	}
	meta, err := marshalPayload(e.Meta)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal meta payload")
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, action, entity_type, entity_id, actor,
			before_json, after_json, meta_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, e.Action, e.EntityType, e.EntityID, e.Actor, before, after, meta, createdAt)
	if err != nil {
		return goerr.Wrap(err, "failed to append audit entry", goerr.V("action", e.Action))
	}

	return nil
}

func (r *auditRepository) List(ctx context.Context, limit int) ([]*model.AuditEntry, error) {
	query := `SELECT id, action, entity_type, entity_id, actor,
			before_json, after_json, meta_json, created_at
		FROM audit_log ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows := []auditRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, goerr.Wrap(err, "failed to list audit entries")
	}

	result := make([]*model.AuditEntry, 0, len(rows))
	for _, row := range rows {
		before, err := unmarshalPayload(row.BeforeJSON)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode before payload", goerr.V("id", row.ID))
		}
		after, err := unmarshalPayload(row.AfterJSON)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode after payload", goerr.V("id", row.ID))
		}
		meta, err := unmarshalPayload(row.MetaJSON)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode meta payload", goerr.V("id", row.ID))
		}

		result = append(result, &model.AuditEntry{
			ID:         row.ID,
			Action:     types.AuditAction(row.Action),
			EntityType: row.EntityType,
			EntityID:   row.EntityID,
			Actor:      types.UserID(row.Actor),
			Before:     before,
			After:      after,
			Meta:       meta,
			CreatedAt:  row.CreatedAt,
		})
	}

	return result, nil
}
