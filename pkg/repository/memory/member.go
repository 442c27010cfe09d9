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

type memberRepository struct {
	mu      sync.RWMutex
	members map[types.UserID]*model.Member
}

func newMemberRepository() *memberRepository {
	return &memberRepository{
		members: make(map[types.UserID]*model.Member),
	}
}

func copyMember(m *model.Member) *model.Member {
	copied := *m
	return &copied
}

func (r *memberRepository) Put(ctx context.Context, m *model.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyMember(m)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.members[stored.ID] = stored
	return nil
}

func (r *memberRepository) Get(ctx context.Context, id types.UserID) (*model.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.members[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "member not found", goerr.V("id", id))
	}

	return copyMember(m), nil
}

func (r *memberRepository) List(ctx context.Context) ([]*model.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Member, 0, len(r.members))
	for _, m := range r.members {
		result = append(result, copyMember(m))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

type unitRepository struct {
	mu    sync.RWMutex
	units map[types.UnitID]*model.OrgUnit
}

func newUnitRepository() *unitRepository {
	return &unitRepository{
		units: make(map[types.UnitID]*model.OrgUnit),
	}
}

func (r *unitRepository) Put(ctx context.Context, u *model.OrgUnit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *u
	r.units[stored.ID] = &stored
	return nil
}

func (r *unitRepository) Get(ctx context.Context, id types.UnitID) (*model.OrgUnit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.units[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "unit not found", goerr.V("id", id))
	}

	copied := *u
	return &copied, nil
}

func (r *unitRepository) List(ctx context.Context) ([]*model.OrgUnit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.OrgUnit, 0, len(r.units))
	for _, u := range r.units {
		copied := *u
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}
