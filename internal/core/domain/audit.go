package domain

import "time"

// AuditAction identifies a security-relevant event recorded in the audit trail.
type AuditAction string

const (
	AuditLoginSucceeded   AuditAction = "login_succeeded"
	AuditLoginFailed      AuditAction = "login_failed"
	AuditMemberRegistered AuditAction = "member_registered"
	AuditMemberUpdated    AuditAction = "member_updated"
	AuditMemberDeleted    AuditAction = "member_deleted"
	AuditRoleChanged      AuditAction = "role_changed"
	AuditPasswordChanged  AuditAction = "password_changed"
)

// AuditEvent is an append-only record of a security-relevant operation.
// SubjectID is the member the event is about; Actor is who performed it
// ("anonymous" for unauthenticated paths, "system" for bootstrap).
type AuditEvent struct {
	ID         string      `json:"id"`
	SubjectID  string      `json:"subject_id"`
	Actor      string      `json:"actor"`
	Action     AuditAction `json:"action"`
	Detail     string      `json:"detail,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
