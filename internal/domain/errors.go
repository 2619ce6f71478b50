package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// InvalidTransitionError means the transition table has no edge from the
// trip's current status to the requested one. Permanent; not retryable.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("no transition from %s to %s", e.From, e.To)
}

// PreconditionFailedError means the edge exists but its guard is unmet.
// Condition names the specific unmet guard.
type PreconditionFailedError struct {
	From      string
	To        string
	Condition string
}

func (e PreconditionFailedError) Error() string {
	return fmt.Sprintf("transition %s to %s blocked: %s", e.From, e.To, e.Condition)
}

// ConcurrentModificationError means the conditional status write lost an
// optimistic-concurrency race. The caller should re-read and re-decide.
type ConcurrentModificationError struct {
	TripID string
}

func (e ConcurrentModificationError) Error() string {
	return fmt.Sprintf("trip %s was modified concurrently", e.TripID)
}

// AuditWriteFailedError means the status write committed but the audit
// append did not. The transition must be retried with the same request id
// so the append stays idempotent.
type AuditWriteFailedError struct {
	TripID string
	Err    error
}

func (e AuditWriteFailedError) Error() string {
	return fmt.Sprintf("status committed for trip %s but audit write failed", e.TripID)
}

func (e AuditWriteFailedError) Unwrap() error { return e.Err }

// StoreUnavailableError wraps a transient storage failure. Retryable as-is;
// the failed call performed no mutation unless wrapped by AuditWriteFailed.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e StoreUnavailableError) Error() string {
	if e.Op == "" {
		return "store unavailable"
	}
	return fmt.Sprintf("store unavailable during %s", e.Op)
}

func (e StoreUnavailableError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target InvalidTransitionError
	return errors.As(err, &target)
}

func IsPreconditionFailed(err error) bool {
	var target PreconditionFailedError
	return errors.As(err, &target)
}

func IsConcurrentModification(err error) bool {
	var target ConcurrentModificationError
	return errors.As(err, &target)
}

func IsAuditWriteFailed(err error) bool {
	var target AuditWriteFailedError
	return errors.As(err, &target)
}

func IsStoreUnavailable(err error) bool {
	var target StoreUnavailableError
	return errors.As(err, &target)
}
