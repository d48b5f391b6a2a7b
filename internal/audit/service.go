package audit

import (
	"context"
	"errors"
	"time"

	"authgate/internal/auth"
	"authgate/pkg/logger"

	"github.com/google/uuid"
)

// Repository is the persistence contract for authentication events.
//
// It MUST be append-only. No Update/Delete methods are provided.
type Repository interface {
	Append(ctx context.Context, e Event) error
	// ListEvents returns events in [from, to). Implementations must order
	// by created_at ascending.
	ListEvents(ctx context.Context, tenantID string, from, to time.Time) ([]Event, error)
}

// Service records authentication decisions.
//
// Audit is internal-only; these records carry rejection reasons that must
// never reach clients.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Outcome == "" {
		return ErrInvalidEvent
	}
	if e.Outcome == OutcomeRejected && e.Reason == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// RecordDecision implements auth.DecisionRecorder. Failures are logged and
// swallowed so a broken audit sink cannot take authentication down with it.
func (s *Service) RecordDecision(ctx context.Context, d auth.Decision) {
	e := Event{
		TenantID:  d.TenantID,
		UserUUID:  d.UserUUID,
		SessionID: d.SessionID,
		Path:      d.Path,
		IPAddress: d.IP,
	}
	if d.Granted {
		e.Outcome = OutcomeGranted
	} else {
		e.Outcome = OutcomeRejected
		e.Reason = string(d.Code)
	}
	if err := s.Append(ctx, e); err != nil {
		logger.From(ctx).Error("audit append failed", "err", err)
	}
}

// ListEvents returns the raw event stream for a tenant and range.
func (s *Service) ListEvents(ctx context.Context, tenantID string, from, to time.Time) ([]Event, error) {
	if s.repo == nil {
		return nil, errors.New("audit: repository not configured")
	}
	return s.repo.ListEvents(ctx, tenantID, from, to)
}
