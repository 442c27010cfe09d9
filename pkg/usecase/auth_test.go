package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mateh-lab/taskcast/pkg/domain/model/auth"
	"github.com/mateh-lab/taskcast/pkg/repository/memory"
	"github.com/mateh-lab/taskcast/pkg/usecase"
)

func TestAuthLogin(t *testing.T) {
	now := time.Now().UTC()

	t.Run("issues a session for a known member", func(t *testing.T) {
		uc, _ := newSeededUseCases(t, &now)
		ctx := context.Background()

		sess, member, err := uc.Auth.Login(ctx, "manager-north")
		gt.NoError(t, err).Required()
		gt.Value(t, member.ID).Equal("manager-north")
		gt.Value(t, sess.MemberID).Equal("manager-north")
		gt.Value(t, string(sess.Secret)).NotEqual("")
		gt.Bool(t, sess.ExpiresAt.After(now)).True()
	})

	t.Run("rejects an unknown member", func(t *testing.T) {
		uc, _ := newSeededUseCases(t, &now)
		ctx := context.Background()

		_, _, err := uc.Auth.Login(ctx, "nobody")
		gt.Bool(t, errors.Is(err, usecase.ErrUnauthorized)).True()
	})
}

func TestAuthValidateSession(t *testing.T) {
	t.Run("resolves a valid cookie pair", func(t *testing.T) {
		now := time.Now().UTC()
		uc, _ := newSeededUseCases(t, &now)
		ctx := context.Background()

		sess, _, err := uc.Auth.Login(ctx, "coord-south")
		gt.NoError(t, err).Required()

		member, err := uc.Auth.ValidateSession(ctx, sess.ID, sess.Secret)
		gt.NoError(t, err).Required()
		gt.Value(t, member.ID).Equal("coord-south")
	})

	t.Run("rejects a wrong secret", func(t *testing.T) {
		now := time.Now().UTC()
		uc, _ := newSeededUseCases(t, &now)
		ctx := context.Background()

		sess, _, err := uc.Auth.Login(ctx, "coord-south")
		gt.NoError(t, err).Required()

		_, err = uc.Auth.ValidateSession(ctx, sess.ID, "not-the-secret")
		gt.Bool(t, errors.Is(err, usecase.ErrUnauthorized)).True()
	})

	t.Run("rejects an unknown session", func(t *testing.T) {
		now := time.Now().UTC()
		uc, _ := newSeededUseCases(t, &now)

		_, err := uc.Auth.ValidateSession(context.Background(), "missing", "whatever")
		gt.Bool(t, errors.Is(err, usecase.ErrUnauthorized)).True()
	})

	t.Run("rejects and removes an expired session", func(t *testing.T) {
		now := time.Now().UTC()
		uc, repo := newSeededUseCases(t, &now)
		ctx := context.Background()

		sess, _, err := uc.Auth.Login(ctx, "coord-south")
		gt.NoError(t, err).Required()

		now = now.Add(auth.SessionTTL + time.Minute)
		_, err = uc.Auth.ValidateSession(ctx, sess.ID, sess.Secret)
		gt.Bool(t, errors.Is(err, usecase.ErrUnauthorized)).True()

		// The expired session is gone, so even rewinding the clock
		// would not revive it.
		_, err = repo.GetSession(ctx, sess.ID)
		gt.Error(t, err)
	})
}

func TestAuthLogout(t *testing.T) {
	now := time.Now().UTC()
	uc, _ := newSeededUseCases(t, &now)
	ctx := context.Background()

	sess, _, err := uc.Auth.Login(ctx, "manager-north")
	gt.NoError(t, err).Required()

	gt.NoError(t, uc.Auth.Logout(ctx, sess.ID)).Required()

	_, err = uc.Auth.ValidateSession(ctx, sess.ID, sess.Secret)
	gt.Bool(t, errors.Is(err, usecase.ErrUnauthorized)).True()
}

func TestNoAuthn(t *testing.T) {
	t.Run("every request resolves to the pinned member", func(t *testing.T) {
		repo := memory.New()
		seedOrg(t, repo)
		noAuth := usecase.NewNoAuthnUseCase(repo, "admin-1")

		gt.Bool(t, noAuth.IsNoAuthn()).True()

		member, err := noAuth.ValidateSession(context.Background(), "", "")
		gt.NoError(t, err).Required()
		gt.Value(t, member.ID).Equal("admin-1")
	})

	t.Run("missing pinned member is rejected", func(t *testing.T) {
		repo := memory.New()
		noAuth := usecase.NewNoAuthnUseCase(repo, "ghost")

		_, err := noAuth.ValidateSession(context.Background(), "", "")
		gt.Bool(t, errors.Is(err, usecase.ErrUnauthorized)).True()
	})
}
