package lifecycle

import (
	"fmt"
	"sort"

	"docmanager/internal/models"
)

// Listing order: requests still awaiting action (unclaimed documents,
// pending authorizations) always sort before everything else, and the
// requested field orders each bucket. Sort keys are an enumerated map;
// unknown keys are rejected rather than passed into the query builder.

// SortField names a column requests may be ordered by.
type SortField string

const (
	// SortByDateRequested is the default sort key.
	SortByDateRequested SortField = "date_requested"
	// SortByStatus orders by lifecycle status.
	SortByStatus SortField = "status"
	// SortByCollege orders by the requester's college.
	SortByCollege SortField = "college"
	// SortByType orders document requests by fulfillment type.
	SortByType SortField = "type"
	// SortByPurpose orders by the stated purpose.
	SortByPurpose SortField = "purpose"
)

// Direction is a sort direction.
type Direction string

const (
	// Ascending is the default direction.
	Ascending Direction = "asc"
	// Descending reverses the in-bucket order.
	Descending Direction = "desc"
)

// Valid reports whether the direction is asc or desc.
func (d Direction) Valid() bool {
	return d == Ascending || d == Descending
}

// documentSortKeys maps allowed document request sort fields to accessors.
var documentSortKeys = map[SortField]func(r models.DocumentRequest) string{
	SortByDateRequested: func(r models.DocumentRequest) string { return r.DateRequested.UTC().Format("2006-01-02T15:04:05.000000000") },
	SortByStatus:        func(r models.DocumentRequest) string { return string(r.Status) },
	SortByCollege:       func(r models.DocumentRequest) string { return r.College },
	SortByType:          func(r models.DocumentRequest) string { return string(r.Type) },
	SortByPurpose:       func(r models.DocumentRequest) string { return r.Purpose },
}

// authorizationSortKeys maps allowed authorization request sort fields to
// accessors. Authorization requests have no fulfillment type.
var authorizationSortKeys = map[SortField]func(r models.AuthorizationRequest) string{
	SortByDateRequested: func(r models.AuthorizationRequest) string {
		return r.DateRequested.UTC().Format("2006-01-02T15:04:05.000000000")
	},
	SortByStatus:  func(r models.AuthorizationRequest) string { return string(r.Status) },
	SortByCollege: func(r models.AuthorizationRequest) string { return r.College },
	SortByPurpose: func(r models.AuthorizationRequest) string { return r.Purpose },
}

// OrderDocumentRequests sorts requests with unclaimed items first, then by
// the given field and direction within each bucket. The input slice is not
// modified.
func OrderDocumentRequests(requests []models.DocumentRequest, field SortField, direction Direction) ([]models.DocumentRequest, error) {
	field, direction = sortDefaults(field, direction)
	key, ok := documentSortKeys[field]
	if !ok {
		return nil, models.NewInvalidSortFieldError(string(field))
	}
	if !direction.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("Unknown sort direction %q", direction))
	}

	out := make([]models.DocumentRequest, len(requests))
	copy(out, requests)
	sort.SliceStable(out, func(i, j int) bool {
		bi := priorityBucket(out[i].Status == models.DocumentRequestStatusUnclaimed)
		bj := priorityBucket(out[j].Status == models.DocumentRequestStatusUnclaimed)
		if bi != bj {
			return bi < bj
		}
		if direction == Descending {
			return key(out[i]) > key(out[j])
		}
		return key(out[i]) < key(out[j])
	})
	return out, nil
}

// OrderAuthorizationRequests sorts requests with pending items first, then
// by the given field and direction within each bucket.
func OrderAuthorizationRequests(requests []models.AuthorizationRequest, field SortField, direction Direction) ([]models.AuthorizationRequest, error) {
	field, direction = sortDefaults(field, direction)
	key, ok := authorizationSortKeys[field]
	if !ok {
		return nil, models.NewInvalidSortFieldError(string(field))
	}
	if !direction.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("Unknown sort direction %q", direction))
	}

	out := make([]models.AuthorizationRequest, len(requests))
	copy(out, requests)
	sort.SliceStable(out, func(i, j int) bool {
		bi := priorityBucket(out[i].Status == models.AuthorizationRequestStatusPending)
		bj := priorityBucket(out[j].Status == models.AuthorizationRequestStatusPending)
		if bi != bj {
			return bi < bj
		}
		if direction == Descending {
			return key(out[i]) > key(out[j])
		}
		return key(out[i]) < key(out[j])
	})
	return out, nil
}

// documentOrderColumns and authorizationOrderColumns whitelist the columns
// the repositories may interpolate into ORDER BY clauses.
var documentOrderColumns = map[SortField]string{
	SortByDateRequested: "date_requested",
	SortByStatus:        "status",
	SortByCollege:       "college",
	SortByType:          "type",
	SortByPurpose:       "purpose",
}

var authorizationOrderColumns = map[SortField]string{
	SortByDateRequested: "date_requested",
	SortByStatus:        "status",
	SortByCollege:       "college",
	SortByPurpose:       "purpose",
}

// DocumentRequestOrderClause returns the SQL ORDER BY expression for a
// document request listing: the unclaimed-first bucket, then the field.
func DocumentRequestOrderClause(field SortField, direction Direction) (string, error) {
	return orderClause(documentOrderColumns, string(models.DocumentRequestStatusUnclaimed), field, direction)
}

// AuthorizationRequestOrderClause returns the SQL ORDER BY expression for
// an authorization request listing: pending first, then the field.
func AuthorizationRequestOrderClause(field SortField, direction Direction) (string, error) {
	return orderClause(authorizationOrderColumns, string(models.AuthorizationRequestStatusPending), field, direction)
}

func orderClause(columns map[SortField]string, priorityStatus string, field SortField, direction Direction) (string, error) {
	field, direction = sortDefaults(field, direction)
	column, ok := columns[field]
	if !ok {
		return "", models.NewInvalidSortFieldError(string(field))
	}
	if !direction.Valid() {
		return "", models.NewValidationError(fmt.Sprintf("Unknown sort direction %q", direction))
	}
	dir := "ASC"
	if direction == Descending {
		dir = "DESC"
	}
	return fmt.Sprintf("CASE WHEN status = '%s' THEN 0 ELSE 1 END, %s %s", priorityStatus, column, dir), nil
}

func sortDefaults(field SortField, direction Direction) (SortField, Direction) {
	if field == "" {
		field = SortByDateRequested
	}
	if direction == "" {
		direction = Ascending
	}
	return field, direction
}

func priorityBucket(priority bool) int {
	if priority {
		return 0
	}
	return 1
}
