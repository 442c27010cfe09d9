package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
)

// MemberUseCase is the read side of the member directory, used to
// populate recipient pickers.
type MemberUseCase struct {
	repo interfaces.Repository
}

func NewMemberUseCase(repo interfaces.Repository) *MemberUseCase {
	return &MemberUseCase{repo: repo}
}

// List returns every member, sorted by ID
func (uc *MemberUseCase) List(ctx context.Context) ([]*model.Member, error) {
	members, err := uc.repo.Member().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list members")
	}

	return members, nil
}

// Units returns the organizational tree, sorted by ID
func (uc *MemberUseCase) Units(ctx context.Context) ([]*model.OrgUnit, error) {
	units, err := uc.repo.Unit().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list units")
	}

	return units, nil
}
