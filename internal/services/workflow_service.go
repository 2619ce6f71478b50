package services

import (
	"context"
	"errors"
	"time"

	"haulhub/internal/domain"
	"haulhub/internal/domain/models"
	"haulhub/internal/repositories"
	"haulhub/internal/utils"
)

// TripReader, StatusWriter and AuditAppender are the slices of the store
// the workflow needs. TripRepository and AuditRepository satisfy them.
type TripReader interface {
	Get(ctx context.Context, tripID string) (models.Trip, error)
}

type StatusWriter interface {
	ConditionalUpdateStatus(ctx context.Context, tripID string, expected, next models.TripStatus) error
}

type AuditAppender interface {
	Append(ctx context.Context, rec models.AuditRecord) error
}

// WorkflowService applies trip status transitions: transition-table check,
// guard check, conditional status write, then exactly one audit append.
// It never retries on its own; a lost optimistic-concurrency race goes back
// to the caller, who must re-read before deciding whether the target still
// makes sense.
type WorkflowService struct {
	Trips TripReader
	Audit AuditAppender
	Write StatusWriter

	// Now is overridable for tests; defaults to utils.NowUTC.
	Now func() time.Time
}

// TransitionRequest carries one status-change attempt. RequestID is the
// audit idempotency key; retries after AuditWriteFailed or a timeout must
// reuse it so the trail gains at most one record per attempt.
type TransitionRequest struct {
	TripID    string
	Target    models.TripStatus
	Actor     string
	RequestID string
}

// RequestTransition moves a trip to req.Target when the transition table
// allows it. The status write commits before the audit append is attempted;
// the call only succeeds once both are durable. An AuditWriteFailed result
// therefore means the status already moved.
func (s WorkflowService) RequestTransition(ctx context.Context, req TransitionRequest) (models.Trip, error) {
	if req.TripID == "" {
		return models.Trip{}, domain.ValidationError{Field: "trip_id", Msg: "required"}
	}
	if req.Actor == "" {
		return models.Trip{}, domain.ValidationError{Field: "actor", Msg: "required for audit attribution"}
	}
	if req.RequestID == "" {
		return models.Trip{}, domain.ValidationError{Field: "request_id", Msg: "required"}
	}
	if !models.KnownStatus(req.Target) {
		return models.Trip{}, domain.ValidationError{Field: "target_status", Msg: "unknown status"}
	}

	trip, err := s.Trips.Get(ctx, req.TripID)
	if err != nil {
		return models.Trip{}, err
	}

	edge, ok := models.TransitionFor(trip.Status, req.Target)
	if !ok {
		return models.Trip{}, domain.InvalidTransitionError{From: string(trip.Status), To: string(req.Target)}
	}
	if edge.Guard != nil {
		if unmet := edge.Guard(trip); unmet != "" {
			return models.Trip{}, domain.PreconditionFailedError{
				From:      string(trip.Status),
				To:        string(req.Target),
				Condition: unmet,
			}
		}
	}

	err = s.Write.ConditionalUpdateStatus(ctx, req.TripID, trip.Status, req.Target)
	if errors.Is(err, repositories.ErrConditionFailed) {
		return models.Trip{}, domain.ConcurrentModificationError{TripID: req.TripID}
	}
	if err != nil {
		return models.Trip{}, err
	}

	rec := models.AuditRecord{
		TripID:     req.TripID,
		FromStatus: trip.Status,
		ToStatus:   req.Target,
		Actor:      req.Actor,
		RequestID:  req.RequestID,
		ChangedAt:  s.now(),
	}
	if err := s.Audit.Append(ctx, rec); err != nil {
		utils.LogEvent(req.RequestID, "workflow", "audit_append_failed",
			"status committed for trip "+req.TripID+", audit pending")
		return models.Trip{}, domain.AuditWriteFailedError{TripID: req.TripID, Err: err}
	}

	trip.Status = req.Target
	return trip, nil
}

func (s WorkflowService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}
