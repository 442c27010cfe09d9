package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

// SessionID identifies a login session
type SessionID string

// SessionSecret is the bearer part of the session cookie pair
type SessionSecret string

// SessionTTL is how long a session stays valid after login
const SessionTTL = 7 * 24 * time.Hour

// Session binds a cookie pair to a member
type Session struct {
	ID        SessionID     `json:"id" firestore:"id" db:"id"`
	Secret    SessionSecret `json:"-" firestore:"secret" db:"secret"`
	MemberID  types.UserID  `json:"member_id" firestore:"member_id" db:"member_id"`
	ExpiresAt time.Time     `json:"expires_at" firestore:"expires_at" db:"expires_at"`
	CreatedAt time.Time     `json:"created_at" firestore:"created_at" db:"created_at"`
}

// NewSession creates a session for a member with a fresh random secret
func NewSession(memberID types.UserID, now time.Time) (*Session, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, goerr.Wrap(err, "failed to generate session secret")
	}

	return &Session{
		ID:        SessionID(uuid.NewString()),
		Secret:    SessionSecret(hex.EncodeToString(raw)),
		MemberID:  memberID,
		ExpiresAt: now.Add(SessionTTL),
		CreatedAt: now,
	}, nil
}

// IsExpired reports whether the session is past its expiry
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type ctxMemberKey struct{}

// ContextWithMember embeds the authenticated member into the context
func ContextWithMember(ctx context.Context, m *model.Member) context.Context {
	return context.WithValue(ctx, ctxMemberKey{}, m)
}

// MemberFromContext extracts the authenticated member from the
// context. The second value is false when no authentication ran.
func MemberFromContext(ctx context.Context) (*model.Member, bool) {
	m, ok := ctx.Value(ctxMemberKey{}).(*model.Member)
	return m, ok
}
