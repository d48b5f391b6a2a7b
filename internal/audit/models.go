package audit

import "time"

// Event is an immutable, append-only record of one authentication decision.
//
// Invariants:
// - Events are never updated or deleted.
// - Rejections may lack tenant/user identity (the token never verified);
//   grants always carry tenant_id.
// - Recording is best-effort; request handling never blocks on audit.
//
// Storage recommendation (Postgres):
// - Table auth_events with an INSERT-only policy.
// - Optional: partition by time for retention.
type Event struct {
	ID string `json:"id" db:"id"`

	// Outcome is "granted" or "rejected".
	Outcome Outcome `json:"outcome" db:"outcome"`

	// Reason is the internal rejection code. Empty for grants.
	Reason string `json:"reason,omitempty" db:"reason"`

	TenantID  string `json:"tenant_id,omitempty" db:"tenant_id"`
	UserUUID  string `json:"user_uuid,omitempty" db:"user_uuid"`
	SessionID string `json:"session_id,omitempty" db:"session_id"`

	// Path is the matched route, not the raw URL.
	Path string `json:"path,omitempty" db:"path"`

	// IPAddress should capture the original client IP when available.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Outcome string

const (
	OutcomeGranted  Outcome = "granted"
	OutcomeRejected Outcome = "rejected"
)
