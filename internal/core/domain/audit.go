package domain

import "time"

// Audit actions recorded by the user service.
const (
	AuditUserRegistered  = "user.registered"
	AuditLoginSucceeded  = "login.succeeded"
	AuditLoginFailed     = "login.failed"
	AuditPasswordChanged = "password.changed"
	AuditRoleChanged     = "role.changed"
	AuditUserDeleted     = "user.deleted"
)

// AuditEvent is a single security-relevant action taken by or against an account.
type AuditEvent struct {
	ID        string    `json:"id,omitempty"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
