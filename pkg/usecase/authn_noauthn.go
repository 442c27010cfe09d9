package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/model/auth"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

// NoAuthnUseCase authenticates every request as one fixed member
// (for development/testing)
type NoAuthnUseCase struct {
	repo     interfaces.Repository
	memberID types.UserID
}

// NewNoAuthnUseCase creates a new NoAuthnUseCase pinned to the
// specified member
func NewNoAuthnUseCase(repo interfaces.Repository, memberID types.UserID) *NoAuthnUseCase {
	return &NoAuthnUseCase{
		repo:     repo,
		memberID: memberID,
	}
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}

// Login issues a throwaway session for the pinned member
func (uc *NoAuthnUseCase) Login(ctx context.Context, _ types.UserID) (*auth.Session, *model.Member, error) {
	member, err := uc.member(ctx)
	if err != nil {
		return nil, nil, err
	}

	sess, err := auth.NewSession(member.ID, time.Now().UTC())
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to issue session")
	}

	return sess, member, nil
}

// Logout does nothing in no-auth mode
func (uc *NoAuthnUseCase) Logout(ctx context.Context, _ auth.SessionID) error {
	return nil
}

// ValidateSession always resolves to the pinned member
func (uc *NoAuthnUseCase) ValidateSession(ctx context.Context, _ auth.SessionID, _ auth.SessionSecret) (*model.Member, error) {
	return uc.member(ctx)
}

func (uc *NoAuthnUseCase) member(ctx context.Context) (*model.Member, error) {
	member, err := uc.repo.Member().Get(ctx, uc.memberID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrUnauthorized, "no-auth member does not exist",
				goerr.V(MemberIDKey, uc.memberID))
		}
		return nil, goerr.Wrap(err, "failed to load no-auth member", goerr.V(MemberIDKey, uc.memberID))
	}

	return member, nil
}
