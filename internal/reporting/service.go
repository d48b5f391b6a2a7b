package reporting

import (
	"context"
	"errors"
	"time"

	"authgate/internal/audit"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// Repository abstracts data access for reporting.
//
// Implementations must enforce tenant filtering and should query the
// immutable audit event stream.
type Repository interface {
	ListEvents(ctx context.Context, tenantID string, from, to time.Time) ([]audit.Event, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

// DecisionSummary aggregates authentication outcomes for one tenant.
func (s *Service) DecisionSummary(ctx context.Context, req DecisionSummaryRequest) (DecisionSummary, error) {
	if req.TenantID == "" {
		return DecisionSummary{}, ErrInvalidRequest
	}
	if req.Range.From.IsZero() || req.Range.To.IsZero() || !req.Range.To.After(req.Range.From) {
		return DecisionSummary{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return DecisionSummary{}, errors.New("reporting: repository not configured")
	}

	events, err := s.repo.ListEvents(ctx, req.TenantID, req.Range.From, req.Range.To)
	if err != nil {
		return DecisionSummary{}, err
	}

	out := DecisionSummary{TenantID: req.TenantID}
	sessions := make(map[string]struct{})
	for _, e := range events {
		out.TotalDecisions++
		if e.SessionID != "" {
			sessions[e.SessionID] = struct{}{}
		}
		switch e.Outcome {
		case audit.OutcomeGranted:
			out.Granted++
		case audit.OutcomeRejected:
			out.Rejected++
			if out.RejectedByReason == nil {
				out.RejectedByReason = make(map[string]int)
			}
			out.RejectedByReason[e.Reason]++
		}
	}
	out.DistinctSessions = len(sessions)
	return out, nil
}
