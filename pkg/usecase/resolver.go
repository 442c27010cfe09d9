package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

// Resolver computes the concrete recipient set for a sender and target
// mode. Preview and dispatch both go through Resolve; there is no
// second resolution path.
type Resolver struct {
	repo interfaces.Repository
}

func NewResolver(repo interfaces.Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve maps (sender, target mode, optional explicit IDs) to a
// deduplicated recipient set. The receive-only role is rejected before
// any resolution work.
func (r *Resolver) Resolve(ctx context.Context, sender *model.Member, mode types.TargetMode, explicitIDs []types.UserID) (*model.RecipientSet, error) {
	if !sender.Role.CanDispatch() {
		return nil, goerr.Wrap(ErrForbidden, "role is not permitted to send tasks",
			goerr.V(MemberIDKey, sender.ID), goerr.V("role", sender.Role))
	}
	if !mode.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "invalid target mode", goerr.V(TargetModeKey, mode))
	}

	scope, err := r.unitScope(ctx, sender)
	if err != nil {
		return nil, err
	}

	switch mode {
	case types.TargetModeAll:
		return r.resolveAll(ctx, sender, scope)
	case types.TargetModeSelected:
		return r.resolveSelected(ctx, sender, scope, explicitIDs)
	default:
		return nil, goerr.Wrap(ErrValidation, "invalid target mode", goerr.V(TargetModeKey, mode))
	}
}

// unitScope returns the set of unit IDs the sender may target: the
// subtree rooted at the sender's unit, or every unit for admins. A nil
// map means unrestricted.
func (r *Resolver) unitScope(ctx context.Context, sender *model.Member) (map[types.UnitID]bool, error) {
	if sender.Role == types.RoleAdmin {
		return nil, nil
	}

	units, err := r.repo.Unit().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list units")
	}

	children := make(map[types.UnitID][]types.UnitID, len(units))
	for _, u := range units {
		if u.ParentID != "" {
			children[u.ParentID] = append(children[u.ParentID], u.ID)
		}
	}

	scope := map[types.UnitID]bool{sender.UnitID: true}
	queue := []types.UnitID{sender.UnitID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			if !scope[child] {
				scope[child] = true
				queue = append(queue, child)
			}
		}
	}

	return scope, nil
}

// subordinate reports whether m may receive a task from sender: a
// strictly lower role, inside the sender's unit scope, never the
// sender themselves.
func subordinate(sender *model.Member, scope map[types.UnitID]bool, m *model.Member) bool {
	if m.ID == sender.ID {
		return false
	}
	if !sender.Role.Outranks(m.Role) {
		return false
	}
	if scope != nil && !scope[m.UnitID] {
		return false
	}
	return true
}

func (r *Resolver) resolveAll(ctx context.Context, sender *model.Member, scope map[types.UnitID]bool) (*model.RecipientSet, error) {
	members, err := r.repo.Member().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list members")
	}

	recipients := []*model.Member{}
	for _, m := range members {
		if subordinate(sender, scope, m) {
			recipients = append(recipients, m)
		}
	}

	return model.NewRecipientSet(recipients), nil
}

func (r *Resolver) resolveSelected(ctx context.Context, sender *model.Member, scope map[types.UnitID]bool, explicitIDs []types.UserID) (*model.RecipientSet, error) {
	if len(explicitIDs) == 0 {
		return nil, goerr.Wrap(ErrValidation, "explicit recipient list is empty",
			goerr.V(MemberIDKey, sender.ID))
	}

	// Every explicit ID must resolve to a real, subordinate member. A
	// single invalid entry rejects the whole list.
	recipients := make([]*model.Member, 0, len(explicitIDs))
	for _, id := range explicitIDs {
		m, err := r.repo.Member().Get(ctx, id)
		if err != nil {
			return nil, goerr.Wrap(ErrValidation, "unknown recipient",
				goerr.V("recipient_id", id))
		}
		if !subordinate(sender, scope, m) {
			return nil, goerr.Wrap(ErrValidation, "recipient is not subordinate to sender",
				goerr.V("recipient_id", id), goerr.V(MemberIDKey, sender.ID))
		}
		recipients = append(recipients, m)
	}

	return model.NewRecipientSet(recipients), nil
}
