package usecase

import (
	"time"

	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
)

type UseCases struct {
	repo  interfaces.Repository
	clock func() time.Time

	Broadcast  *BroadcastUseCase
	Assignment *AssignmentUseCase
	Members    *MemberUseCase
	Auth       AuthUseCaseInterface
}

type Option func(*UseCases)

// WithAuth sets the authentication use case
func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

// WithClock overrides the time source. Used by tests to pin the
// retraction window.
func WithClock(clock func() time.Time) Option {
	return func(uc *UseCases) {
		uc.clock = clock
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:  repo,
		clock: func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.Auth == nil {
		uc.Auth = NewAuthUseCase(repo, uc.clock)
	}

	resolver := NewResolver(repo)
	uc.Broadcast = NewBroadcastUseCase(repo, resolver, uc.clock)
	uc.Assignment = NewAssignmentUseCase(repo, uc.clock)
	uc.Members = NewMemberUseCase(repo)

	return uc
}
