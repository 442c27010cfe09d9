package types

// AuditAction names an auditable state change
type AuditAction string

const (
	AuditActionTaskDispatched     AuditAction = "task.dispatched"
	AuditActionTaskRetracted      AuditAction = "task.retracted"
	AuditActionAssignmentRead     AuditAction = "assignment.read"
	AuditActionAssignmentArchived AuditAction = "assignment.archived"
	AuditActionBulkArchived       AuditAction = "assignment.bulk_archived"
)

// String returns the string representation of the audit action
func (a AuditAction) String() string {
	return string(a)
}
