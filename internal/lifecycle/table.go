// Package lifecycle implements the request lifecycle state machine: the
// transition tables, the engine that validates and applies a transition,
// the side effects a transition produces, and the unclaimed-first listing
// order. Everything in this package is pure; persistence and delivery are
// the caller's concern.
package lifecycle

import (
	"fmt"

	"docmanager/internal/models"
)

// FieldRemarks is the supplementary field required when denying a request.
const FieldRemarks = "remarks"

// Fields carries supplementary values supplied with a transition.
type Fields map[string]string

// Table is the legal-transition table for one status vocabulary. It is
// pure data: exhaustive tests run against it without any storage.
type Table[S ~string] struct {
	Initial     S
	Transitions map[S][]S
	Required    map[S][]string
}

// Next returns the set of statuses legally reachable from current.
// Terminal statuses return an empty set.
func (t Table[S]) Next(current S) []S {
	next := t.Transitions[current]
	out := make([]S, len(next))
	copy(out, next)
	return out
}

// Terminal reports whether no transitions leave the status.
func (t Table[S]) Terminal(status S) bool {
	return len(t.Transitions[status]) == 0
}

// RequiredFields returns the supplementary fields the target status needs.
func (t Table[S]) RequiredFields(target S) []string {
	req := t.Required[target]
	out := make([]string, len(req))
	copy(out, req)
	return out
}

// Validate checks a proposed transition. Rule precedence: terminal source,
// then no-op, then illegal target, then missing required fields. The
// returned error is one of the lifecycle AppError codes, or nil when the
// transition is legal.
func (t Table[S]) Validate(current, target S, fields Fields) error {
	if t.Terminal(current) {
		return models.NewIllegalTransitionError(fmt.Sprintf(
			"Requests already %s cannot be updated. Create a new request instead", current))
	}
	if target == current {
		return models.NewNoOpTransitionError("Request status provided is the same as the current status")
	}
	legal := false
	for _, s := range t.Transitions[current] {
		if s == target {
			legal = true
			break
		}
	}
	if !legal {
		return models.NewIllegalTransitionError(fmt.Sprintf(
			"Requests marked %s cannot be marked %s", current, target))
	}
	for _, field := range t.Required[target] {
		if fields[field] == "" {
			return models.NewMissingRequiredFieldError(field)
		}
	}
	return nil
}

// DocumentRequestTable governs document request statuses. Unclaimed
// requests can only be claimed; approved requests can be claimed or put
// back to unclaimed; denied and claimed are terminal.
var DocumentRequestTable = Table[models.DocumentRequestStatus]{
	Initial: models.DocumentRequestStatusUnclaimed,
	Transitions: map[models.DocumentRequestStatus][]models.DocumentRequestStatus{
		models.DocumentRequestStatusUnclaimed: {models.DocumentRequestStatusClaimed},
		models.DocumentRequestStatusApproved: {
			models.DocumentRequestStatusClaimed,
			models.DocumentRequestStatusUnclaimed,
		},
	},
	Required: map[models.DocumentRequestStatus][]string{
		models.DocumentRequestStatusDenied: {FieldRemarks},
	},
}

// AuthorizationRequestTable governs authorization requests and their
// units: pending is adjudicated to approved or denied, both terminal, and
// denial requires remarks.
var AuthorizationRequestTable = Table[models.AuthorizationRequestStatus]{
	Initial: models.AuthorizationRequestStatusPending,
	Transitions: map[models.AuthorizationRequestStatus][]models.AuthorizationRequestStatus{
		models.AuthorizationRequestStatusPending: {
			models.AuthorizationRequestStatusApproved,
			models.AuthorizationRequestStatusDenied,
		},
	},
	Required: map[models.AuthorizationRequestStatus][]string{
		models.AuthorizationRequestStatusDenied: {FieldRemarks},
	},
}
