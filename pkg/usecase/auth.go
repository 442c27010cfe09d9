package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/model/auth"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
	"github.com/mateh-lab/taskcast/pkg/utils/logging"
)

// AuthUseCaseInterface is the session boundary consumed by the HTTP
// layer. The identity provider itself is external; this only issues
// and validates opaque sessions for members that already exist in the
// directory.
type AuthUseCaseInterface interface {
	Login(ctx context.Context, memberID types.UserID) (*auth.Session, *model.Member, error)
	Logout(ctx context.Context, sessionID auth.SessionID) error
	ValidateSession(ctx context.Context, sessionID auth.SessionID, secret auth.SessionSecret) (*model.Member, error)
	IsNoAuthn() bool
}

type AuthUseCase struct {
	repo  interfaces.Repository
	clock func() time.Time
}

func NewAuthUseCase(repo interfaces.Repository, clock func() time.Time) *AuthUseCase {
	return &AuthUseCase{
		repo:  repo,
		clock: clock,
	}
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// Login issues a session for a directory member. Unknown members are
// rejected without hinting whether the ID exists.
func (uc *AuthUseCase) Login(ctx context.Context, memberID types.UserID) (*auth.Session, *model.Member, error) {
	member, err := uc.repo.Member().Get(ctx, memberID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, nil, goerr.Wrap(ErrUnauthorized, "unknown member", goerr.V(MemberIDKey, memberID))
		}
		return nil, nil, goerr.Wrap(err, "failed to load member", goerr.V(MemberIDKey, memberID))
	}

	sess, err := auth.NewSession(member.ID, uc.clock())
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to issue session")
	}
	if err := uc.repo.PutSession(ctx, sess); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to store session")
	}

	return sess, member, nil
}

// Logout removes a session. Deleting an unknown session is not an error.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID auth.SessionID) error {
	if err := uc.repo.DeleteSession(ctx, sessionID); err != nil {
		return goerr.Wrap(err, "failed to delete session")
	}
	return nil
}

// ValidateSession resolves a cookie pair to the authenticated member.
func (uc *AuthUseCase) ValidateSession(ctx context.Context, sessionID auth.SessionID, secret auth.SessionSecret) (*model.Member, error) {
	sess, err := uc.repo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrUnauthorized, "invalid session")
		}
		return nil, goerr.Wrap(err, "failed to load session")
	}

	if subtle.ConstantTimeCompare([]byte(sess.Secret), []byte(secret)) != 1 {
		return nil, goerr.Wrap(ErrUnauthorized, "invalid session")
	}

	now := uc.clock()
	if sess.IsExpired(now) {
		if err := uc.repo.DeleteSession(ctx, sessionID); err != nil {
			logging.From(ctx).Warn("failed to delete expired session", "error", err.Error())
		}
		return nil, goerr.Wrap(ErrUnauthorized, "session expired")
	}

	member, err := uc.repo.Member().Get(ctx, sess.MemberID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrUnauthorized, "member no longer exists")
		}
		return nil, goerr.Wrap(err, "failed to load member", goerr.V(MemberIDKey, sess.MemberID))
	}

	return member, nil
}
