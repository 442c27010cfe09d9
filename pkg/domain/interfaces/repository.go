package interfaces

import (
	"context"

	"github.com/mateh-lab/taskcast/pkg/domain/model/auth"
)

// Repository defines the interface for data persistence
type Repository interface {
	Task() TaskRepository
	Assignment() AssignmentRepository
	Member() MemberRepository
	Unit() UnitRepository
	Audit() AuditRepository

	// Session methods
	PutSession(ctx context.Context, sess *auth.Session) error
	GetSession(ctx context.Context, id auth.SessionID) (*auth.Session, error)
	DeleteSession(ctx context.Context, id auth.SessionID) error

	Close() error
}
