package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is matched by every *InvalidTransitionError
	ErrInvalidTransition = errors.New("booking: invalid status transition")

	// ErrUnknownStatus is returned when a raw value is not a BookingStatus
	ErrUnknownStatus = errors.New("booking: unknown status")
)

// InvalidTransitionError describes a rejected status change
type InvalidTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("booking: invalid status transition %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// CanTransitionTo reports whether next is a legal successor of s.
// Same-state requests are not transitions and are handled by Transition.
//
//	pending     -> confirmed | cancelled
//	confirmed   -> in_progress | cancelled
//	in_progress -> completed | cancelled
//	completed, cancelled: terminal
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusInProgress || next == StatusCancelled
	case StatusInProgress:
		return next == StatusCompleted || next == StatusCancelled
	case StatusCompleted, StatusCancelled:
		return false
	default:
		return false
	}
}

// AllowedTransitions lists the legal successors of s
func (s BookingStatus) AllowedTransitions() []BookingStatus {
	allowed := make([]BookingStatus, 0, 2)
	for _, next := range []BookingStatus{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled} {
		if s.CanTransitionTo(next) {
			allowed = append(allowed, next)
		}
	}
	return allowed
}

// Transition validates a status change and returns the resulting status.
// Re-applying the current status is an idempotent success. Any other change
// not allowed by CanTransitionTo fails with *InvalidTransitionError; the
// requested status is never coerced into a neighbouring legal one.
func Transition(current, requested BookingStatus) (BookingStatus, error) {
	if !current.IsValid() || !requested.IsValid() {
		return current, &InvalidTransitionError{From: current, To: requested}
	}
	if current == requested {
		return current, nil
	}
	if !current.CanTransitionTo(requested) {
		return current, &InvalidTransitionError{From: current, To: requested}
	}
	return requested, nil
}
