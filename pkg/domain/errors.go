package domain

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when a referenced entity is absent.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ForbiddenError is returned when an authenticated actor is not permitted to
// perform an action: role mismatch, ownership mismatch, or a district acting
// on a store outside its current membership.
type ForbiddenError struct {
	Reason string
}

func (e ForbiddenError) Error() string {
	if e.Reason == "" {
		return "forbidden"
	}
	return "forbidden: " + e.Reason
}

// InvalidTransitionError is returned when a requested status change is not an
// edge of the kind's transition table from the record's current status,
// including re-applying a terminal transition.
type InvalidTransitionError struct {
	Entity EntityType
	ID     string
	From   string
	To     string
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s %s: illegal transition %s -> %s", e.Entity, e.ID, e.From, e.To)
}

// ValidationError is returned for malformed or missing payload fields.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError is the storage-layer observation of a lost optimistic-write
// race: the record's status no longer matches the precondition the engine
// read. It is a specialization of InvalidTransitionError; callers checking
// IsInvalidTransition match both.
type ConflictError struct {
	Entity   EntityType
	ID       string
	Expected string
	Actual   string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s %s: write conflict, expected status %s but found %s", e.Entity, e.ID, e.Expected, e.Actual)
}

// ErrUnavailable signals that the persistence collaborator exhausted its own
// reconnect policy. The caller should retry later rather than correct input.
var ErrUnavailable = errors.New("persistence unavailable")

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// IsForbidden reports whether err is a ForbiddenError.
func IsForbidden(err error) bool {
	var fb ForbiddenError
	return errors.As(err, &fb)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError or its
// ConflictError specialization.
func IsInvalidTransition(err error) bool {
	var it InvalidTransitionError
	if errors.As(err, &it) {
		return true
	}
	var c ConflictError
	return errors.As(err, &c)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var c ConflictError
	return errors.As(err, &c)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
