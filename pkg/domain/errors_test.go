package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorPredicates(t *testing.T) {
	notFound := NotFoundError{Entity: EntityStore, ID: "s1"}
	forbidden := ForbiddenError{Reason: "not your store"}
	invalid := InvalidTransitionError{Entity: EntityTicket, ID: "t1", From: "approved", To: "approved"}
	conflict := ConflictError{Entity: EntityTicket, ID: "t1", Expected: "pending", Actual: "approved"}
	validation := ValidationError{Field: "code", Reason: "required"}

	if !IsNotFound(notFound) || IsNotFound(forbidden) {
		t.Error("IsNotFound misclassified")
	}
	if !IsForbidden(forbidden) || IsForbidden(notFound) {
		t.Error("IsForbidden misclassified")
	}
	if !IsInvalidTransition(invalid) {
		t.Error("IsInvalidTransition should match InvalidTransitionError")
	}
	if !IsInvalidTransition(conflict) {
		t.Error("IsInvalidTransition should match the ConflictError specialization")
	}
	if !IsConflict(conflict) || IsConflict(invalid) {
		t.Error("IsConflict misclassified")
	}
	if !IsValidation(validation) || IsValidation(invalid) {
		t.Error("IsValidation misclassified")
	}
}

func TestPredicatesUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("transition ticket: %w", ForbiddenError{Reason: "district not linked"})
	if !IsForbidden(wrapped) {
		t.Error("IsForbidden should see through wrapping")
	}
	if IsForbidden(errors.New("plain")) {
		t.Error("IsForbidden matched an unrelated error")
	}
}

func TestErrorMessages(t *testing.T) {
	if got := (NotFoundError{Entity: EntityDistrict, ID: "d9"}).Error(); got != "district d9 not found" {
		t.Errorf("unexpected message %q", got)
	}
	if got := (ForbiddenError{}).Error(); got != "forbidden" {
		t.Errorf("unexpected message %q", got)
	}
	msg := (ConflictError{Entity: EntityVoucher, ID: "v1", Expected: "pending", Actual: "validated"}).Error()
	if msg == "" {
		t.Error("conflict message empty")
	}
}

func TestResultMergeAndBlocking(t *testing.T) {
	var r Result
	r.Merge(Result{})
	if len(r.Violations) != 0 {
		t.Fatal("merging empty result must not add violations")
	}
	r.Merge(Result{Violations: []Violation{{Rule: "x", Severity: SeverityWarn}}})
	if r.HasBlocking() {
		t.Error("warn severity must not block")
	}
	r.Merge(Result{Violations: []Violation{{Rule: "y", Severity: SeverityBlock}}})
	if !r.HasBlocking() {
		t.Error("block severity must block")
	}
}
