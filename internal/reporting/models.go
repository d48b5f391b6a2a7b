package reporting

import "time"

// TimeRange bounds a report as [From, To).
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// DecisionSummaryRequest requests aggregated authentication metrics.
// Tenant isolation: TenantID is required; callers only see their own tenant.
type DecisionSummaryRequest struct {
	TenantID string    `json:"tenant_id"`
	Range    TimeRange `json:"range"`
}

// DecisionSummary aggregates grant/reject counts for one tenant.
//
// RejectedByReason is keyed by the internal rejection code. The summary is
// an operator-facing surface; codes here never leak into client responses.
type DecisionSummary struct {
	TenantID string `json:"tenant_id"`

	TotalDecisions int `json:"total_decisions"`
	Granted        int `json:"granted"`
	Rejected       int `json:"rejected"`

	RejectedByReason map[string]int `json:"rejected_by_reason,omitempty"`

	// DistinctSessions counts unique session IDs seen in the range.
	DistinctSessions int `json:"distinct_sessions"`
}
