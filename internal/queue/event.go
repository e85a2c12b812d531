// Package queue defines message payloads exchanged over the message broker.
package queue

// AuditEvent is published whenever a user performs a state-changing action.
// It carries enough context for downstream consumers to build an audit trail
// without querying the primary database.
type AuditEvent struct {
	Action     string `json:"action"`
	ActorID    uint64 `json:"actor_id"`
	ActorEmail string `json:"actor_email"`
	ActorRole  string `json:"actor_role"`
	TargetType string `json:"target_type,omitempty"`
	TargetID   uint64 `json:"target_id,omitempty"`
	Detail     string `json:"detail,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
