package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"haulhub/internal/domain"
	"haulhub/internal/domain/models"
	"haulhub/internal/repositories"
)

// fakeTripStore keeps trips in memory and mimics the store's conditional
// status write and idempotent audit append.
type fakeTripStore struct {
	trips map[string]models.Trip
	audit []models.AuditRecord

	failStatusWrite error
	failAudit       error
	// raceStatus simulates a concurrent writer flipping the status between
	// the workflow's read and its conditional write.
	raceStatus models.TripStatus
}

func newFakeStore(trips ...models.Trip) *fakeTripStore {
	s := &fakeTripStore{trips: map[string]models.Trip{}}
	for _, t := range trips {
		s.trips[t.TripID] = t
	}
	return s
}

func (s *fakeTripStore) Get(_ context.Context, tripID string) (models.Trip, error) {
	t, ok := s.trips[tripID]
	if !ok {
		return models.Trip{}, domain.NotFoundError{Resource: "trip"}
	}
	return t, nil
}

func (s *fakeTripStore) ConditionalUpdateStatus(_ context.Context, tripID string, expected, next models.TripStatus) error {
	if s.failStatusWrite != nil {
		return s.failStatusWrite
	}
	t, ok := s.trips[tripID]
	if !ok {
		return repositories.ErrConditionFailed
	}
	if s.raceStatus != "" {
		t.Status = s.raceStatus
		s.trips[tripID] = t
		s.raceStatus = ""
	}
	if t.Status != expected {
		return repositories.ErrConditionFailed
	}
	t.Status = next
	s.trips[tripID] = t
	return nil
}

func (s *fakeTripStore) Append(_ context.Context, rec models.AuditRecord) error {
	if s.failAudit != nil {
		return s.failAudit
	}
	for _, existing := range s.audit {
		if existing.TripID == rec.TripID && existing.RequestID == rec.RequestID {
			return nil
		}
	}
	rec.Seq = int64(len(s.audit) + 1)
	s.audit = append(s.audit, rec)
	return nil
}

func (s *fakeTripStore) auditCount(tripID string) int {
	n := 0
	for _, rec := range s.audit {
		if rec.TripID == tripID {
			n++
		}
	}
	return n
}

func newWorkflow(store *fakeTripStore) WorkflowService {
	return WorkflowService{
		Trips: store,
		Write: store,
		Audit: store,
		Now:   func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func scheduledTrip(id string) models.Trip {
	return models.Trip{TripID: id, OwnerID: "owner-1", Status: models.StatusScheduled}
}

func TestRequestTransitionScheduledScenario(t *testing.T) {
	store := newFakeStore(scheduledTrip("T1"))
	svc := newWorkflow(store)
	ctx := context.Background()

	// No direct Scheduled -> InTransit edge.
	_, err := svc.RequestTransition(ctx, TransitionRequest{
		TripID: "T1", Target: models.StatusInTransit, Actor: "disp@x.com", RequestID: "r1",
	})
	if !domain.IsInvalidTransition(err) {
		t.Fatalf("want InvalidTransition, got %v", err)
	}
	if store.auditCount("T1") != 0 {
		t.Fatalf("failed transition must not write audit, got %d records", store.auditCount("T1"))
	}

	trip, err := svc.RequestTransition(ctx, TransitionRequest{
		TripID: "T1", Target: models.StatusPickedUp, Actor: "disp@x.com", RequestID: "r2",
	})
	if err != nil {
		t.Fatalf("PickedUp transition failed: %v", err)
	}
	if trip.Status != models.StatusPickedUp {
		t.Fatalf("returned status %s, want PickedUp", trip.Status)
	}
	if got := store.trips["T1"].Status; got != models.StatusPickedUp {
		t.Fatalf("stored status %s, want PickedUp", got)
	}
	if store.auditCount("T1") != 1 {
		t.Fatalf("want exactly one audit record, got %d", store.auditCount("T1"))
	}

	rec := store.audit[0]
	if rec.FromStatus != models.StatusScheduled || rec.ToStatus != models.StatusPickedUp {
		t.Fatalf("audit edge %s->%s, want Scheduled->PickedUp", rec.FromStatus, rec.ToStatus)
	}
	if rec.Actor != "disp@x.com" {
		t.Fatalf("audit actor %q", rec.Actor)
	}
}

func TestRequestTransitionAuditGrowsByOnePerSuccess(t *testing.T) {
	store := newFakeStore(scheduledTrip("T1"))
	svc := newWorkflow(store)
	ctx := context.Background()

	steps := []models.TripStatus{
		models.StatusPickedUp, models.StatusInTransit, models.StatusDelivered, models.StatusPaid,
	}
	for i, target := range steps {
		before := store.auditCount("T1")
		if _, err := svc.RequestTransition(ctx, TransitionRequest{
			TripID: "T1", Target: target, Actor: "a", RequestID: "req-" + string(target),
		}); err != nil {
			t.Fatalf("step %d to %s: %v", i, target, err)
		}
		if got := store.auditCount("T1"); got != before+1 {
			t.Fatalf("step %d: audit count %d, want %d", i, got, before+1)
		}
		last := store.audit[len(store.audit)-1]
		if last.ToStatus != store.trips["T1"].Status {
			t.Fatalf("last audit to_status %s != trip status %s", last.ToStatus, store.trips["T1"].Status)
		}
	}
}

func TestRequestTransitionTerminalStatesRejectEverything(t *testing.T) {
	for _, terminal := range []models.TripStatus{models.StatusPaid, models.StatusCanceled} {
		store := newFakeStore(models.Trip{TripID: "T1", Status: terminal})
		svc := newWorkflow(store)

		for _, target := range models.AllStatuses {
			_, err := svc.RequestTransition(context.Background(), TransitionRequest{
				TripID: "T1", Target: target, Actor: "a", RequestID: "r",
			})
			if !domain.IsInvalidTransition(err) {
				t.Fatalf("from %s to %s: want InvalidTransition, got %v", terminal, target, err)
			}
		}
	}
}

func TestRequestTransitionConcurrentLoserGetsConflict(t *testing.T) {
	store := newFakeStore(scheduledTrip("T1"))
	store.raceStatus = models.StatusCanceled
	svc := newWorkflow(store)

	_, err := svc.RequestTransition(context.Background(), TransitionRequest{
		TripID: "T1", Target: models.StatusPickedUp, Actor: "a", RequestID: "r",
	})
	if !domain.IsConcurrentModification(err) {
		t.Fatalf("want ConcurrentModification, got %v", err)
	}
	if store.auditCount("T1") != 0 {
		t.Fatalf("lost race must not append audit")
	}
}

func TestRequestTransitionGuardBlocksReadyToPay(t *testing.T) {
	store := newFakeStore(models.Trip{TripID: "T1", Status: models.StatusWaitingReview})
	svc := newWorkflow(store)

	_, err := svc.RequestTransition(context.Background(), TransitionRequest{
		TripID: "T1", Target: models.StatusReadyToPay, Actor: "a", RequestID: "r",
	})
	if !domain.IsPreconditionFailed(err) {
		t.Fatalf("want PreconditionFailed, got %v", err)
	}
	if got := store.trips["T1"].Status; got != models.StatusWaitingReview {
		t.Fatalf("guard failure must not write, status now %s", got)
	}

	delivered := time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)
	trip := store.trips["T1"]
	trip.DeliveredAt = &delivered
	store.trips["T1"] = trip

	if _, err := svc.RequestTransition(context.Background(), TransitionRequest{
		TripID: "T1", Target: models.StatusReadyToPay, Actor: "a", RequestID: "r2",
	}); err != nil {
		t.Fatalf("transition should pass once delivered_at is set: %v", err)
	}
}

func TestRequestTransitionAuditFailureAfterCommit(t *testing.T) {
	store := newFakeStore(scheduledTrip("T1"))
	store.failAudit = errors.New("audit table down")
	svc := newWorkflow(store)

	_, err := svc.RequestTransition(context.Background(), TransitionRequest{
		TripID: "T1", Target: models.StatusPickedUp, Actor: "a", RequestID: "r1",
	})
	if !domain.IsAuditWriteFailed(err) {
		t.Fatalf("want AuditWriteFailed, got %v", err)
	}
	// The status write happened before the audit attempt.
	if got := store.trips["T1"].Status; got != models.StatusPickedUp {
		t.Fatalf("status should be committed, got %s", got)
	}

	// Retry with the same request id: the table has no PickedUp -> PickedUp
	// edge, so recovery is append-only, not a re-transition.
	store.failAudit = nil
	if err := store.Append(context.Background(), models.AuditRecord{
		TripID: "T1", FromStatus: models.StatusScheduled, ToStatus: models.StatusPickedUp,
		Actor: "a", RequestID: "r1",
	}); err != nil {
		t.Fatalf("idempotent re-append failed: %v", err)
	}
	if store.auditCount("T1") != 1 {
		t.Fatalf("want one audit record after recovery, got %d", store.auditCount("T1"))
	}
}

func TestRequestTransitionInputValidation(t *testing.T) {
	store := newFakeStore(scheduledTrip("T1"))
	svc := newWorkflow(store)
	ctx := context.Background()

	cases := []TransitionRequest{
		{TripID: "", Target: models.StatusPickedUp, Actor: "a", RequestID: "r"},
		{TripID: "T1", Target: "Bogus", Actor: "a", RequestID: "r"},
		{TripID: "T1", Target: models.StatusPickedUp, Actor: "", RequestID: "r"},
		{TripID: "T1", Target: models.StatusPickedUp, Actor: "a", RequestID: ""},
	}
	for i, req := range cases {
		if _, err := svc.RequestTransition(ctx, req); !domain.IsValidation(err) {
			t.Fatalf("case %d: want ValidationError, got %v", i, err)
		}
	}

	_, err := svc.RequestTransition(ctx, TransitionRequest{
		TripID: "missing", Target: models.StatusPickedUp, Actor: "a", RequestID: "r",
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("want NotFound for unknown trip, got %v", err)
	}
}

func TestRequestTransitionStoreFailureSurfaces(t *testing.T) {
	store := newFakeStore(scheduledTrip("T1"))
	store.failStatusWrite = domain.StoreUnavailableError{Op: "status update", Err: errors.New("conn refused")}
	svc := newWorkflow(store)

	_, err := svc.RequestTransition(context.Background(), TransitionRequest{
		TripID: "T1", Target: models.StatusPickedUp, Actor: "a", RequestID: "r",
	})
	if !domain.IsStoreUnavailable(err) {
		t.Fatalf("want StoreUnavailable, got %v", err)
	}
	if store.auditCount("T1") != 0 {
		t.Fatalf("no audit on failed status write")
	}
}
