package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

// AuditEntry records one state change. Entries are append-only;
// failing to write one never fails the operation that produced it.
type AuditEntry struct {
	ID         string            `json:"id" firestore:"id"`
	Action     types.AuditAction `json:"action" firestore:"action"`
	EntityType string            `json:"entity_type" firestore:"entity_type"`
	EntityID   string            `json:"entity_id" firestore:"entity_id"`
	Actor      types.UserID      `json:"actor" firestore:"actor"`
	Before     map[string]any    `json:"before,omitempty" firestore:"before"`
	After      map[string]any    `json:"after,omitempty" firestore:"after"`
	Meta       map[string]any    `json:"meta,omitempty" firestore:"meta"`
	CreatedAt  time.Time         `json:"created_at" firestore:"created_at"`
}

// NewAuditEntryID generates a new audit entry ID
func NewAuditEntryID() string {
	return uuid.NewString()
}
