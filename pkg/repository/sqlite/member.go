package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

type memberRepository struct {
	db *sqlx.DB
}

func (r *memberRepository) Put(ctx context.Context, m *model.Member) error {
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO members (id, name, role, unit_id, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name,
			role = excluded.role, unit_id = excluded.unit_id`,
		m.ID, m.Name, m.Role, m.UnitID, createdAt)
	if err != nil {
		return goerr.Wrap(err, "failed to put member", goerr.V("id", m.ID))
	}

	return nil
}

func (r *memberRepository) Get(ctx context.Context, id types.UserID) (*model.Member, error) {
	var m model.Member
	err := r.db.GetContext(ctx, &m,
		`SELECT id, name, role, unit_id, created_at FROM members WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "member not found", goerr.V("id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get member", goerr.V("id", id))
	}

	return &m, nil
}

func (r *memberRepository) List(ctx context.Context) ([]*model.Member, error) {
	result := []*model.Member{}
	err := r.db.SelectContext(ctx, &result,
		`SELECT id, name, role, unit_id, created_at FROM members ORDER BY id`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list members")
	}

	return result, nil
}

type unitRepository struct {
	db *sqlx.DB
}

func (r *unitRepository) Put(ctx context.Context, u *model.OrgUnit) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO org_units (id, name, parent_id) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name,
			parent_id = excluded.parent_id`,
		u.ID, u.Name, u.ParentID)
	if err != nil {
		return goerr.Wrap(err, "failed to put unit", goerr.V("id", u.ID))
	}

	return nil
}

func (r *unitRepository) Get(ctx context.Context, id types.UnitID) (*model.OrgUnit, error) {
	var u model.OrgUnit
	err := r.db.GetContext(ctx, &u,
		`SELECT id, name, parent_id FROM org_units WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "unit not found", goerr.V("id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get unit", goerr.V("id", id))
	}

	return &u, nil
}

func (r *unitRepository) List(ctx context.Context) ([]*model.OrgUnit, error) {
	result := []*model.OrgUnit{}
	err := r.db.SelectContext(ctx, &result,
		`SELECT id, name, parent_id FROM org_units ORDER BY id`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list units")
	}

	return result, nil
}
