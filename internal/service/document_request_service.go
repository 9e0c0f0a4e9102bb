package service

import (
	"context"
	"strings"
	"time"

	"docmanager/internal/effects"
	"docmanager/internal/lifecycle"
	"docmanager/internal/models"
	"docmanager/internal/observability"
	"docmanager/internal/repository"
)

// Dispatcher executes the side effects of a committed transition. Failures
// are reported, never returned: a lost email does not undo an adjudication.
type Dispatcher interface {
	Dispatch(ctx context.Context, effs []lifecycle.Effect) effects.Report
}

// DocumentRequestService handles document request submission, listing, and
// adjudication.
type DocumentRequestService struct {
	requests   repository.DocumentRequestRepository
	documents  repository.DocumentRepository
	dispatcher Dispatcher
}

// NewDocumentRequestService creates a new document request service.
func NewDocumentRequestService(
	requests repository.DocumentRequestRepository,
	documents repository.DocumentRepository,
	dispatcher Dispatcher,
) *DocumentRequestService {
	return &DocumentRequestService{
		requests:   requests,
		documents:  documents,
		dispatcher: dispatcher,
	}
}

// RequestUnitInput is one line item of a new request.
type RequestUnitInput struct {
	DocumentID uint `json:"document_id"`
	Copies     int  `json:"copies"`
}

// CreateDocumentRequestInput is the payload for filing a request. The
// requester is always the caller; a payload cannot file on behalf of
// another account.
type CreateDocumentRequestInput struct {
	College string                     `json:"college"`
	Type    models.DocumentRequestType `json:"type"`
	Purpose string                     `json:"purpose"`
	Units   []RequestUnitInput         `json:"documents"`
}

// ListRequestsInput carries the listing filters and sort controls.
type ListRequestsInput struct {
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Sort      lifecycle.SortField
	Direction lifecycle.Direction
	Limit     int
	Offset    int
}

// Create files a new document request in the unclaimed state and announces
// it to the head audience.
func (s *DocumentRequestService) Create(ctx context.Context, caller models.Caller, input CreateDocumentRequestInput) (*models.DocumentRequest, error) {
	if !caller.Role.Can(models.CapabilitySubmit) {
		return nil, models.NewUnauthorizedError("Role is not allowed to submit requests")
	}
	if strings.TrimSpace(input.College) == "" {
		return nil, models.NewValidationError("College is required")
	}
	if strings.TrimSpace(input.Purpose) == "" {
		return nil, models.NewValidationError("Purpose is required")
	}
	switch input.Type {
	case models.DocumentRequestTypeHardcopy:
	case models.DocumentRequestTypeSoftcopy:
		return nil, models.NewUnsupportedTypeError("Softcopy requests are not supported yet")
	default:
		return nil, models.NewUnsupportedTypeError("Unknown request type")
	}
	if len(input.Units) == 0 {
		return nil, models.NewEmptyUnitsError()
	}

	units := make([]models.DocumentRequestUnit, 0, len(input.Units))
	for _, u := range input.Units {
		if u.Copies < 1 {
			return nil, models.NewValidationError("Copies must be at least 1")
		}
		if _, err := s.documents.GetByID(ctx, u.DocumentID); err != nil {
			return nil, err
		}
		units = append(units, models.DocumentRequestUnit{
			DocumentID: u.DocumentID,
			Copies:     u.Copies,
		})
	}

	request := &models.DocumentRequest{
		RequesterID: caller.ID,
		College:     strings.TrimSpace(input.College),
		Type:        input.Type,
		Purpose:     strings.TrimSpace(input.Purpose),
		Status:      models.DocumentRequestStatusUnclaimed,
		Units:       units,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, lifecycle.DocumentCreationEffects(*request))
	return s.requests.GetByID(ctx, request.ID)
}

// Get returns a single request. Clients see only their own.
func (s *DocumentRequestService) Get(ctx context.Context, caller models.Caller, id uint) (*models.DocumentRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(caller, request.RequesterID); err != nil {
		return nil, err
	}
	return request, nil
}

// List returns requests visible to the caller, unclaimed first.
func (s *DocumentRequestService) List(ctx context.Context, caller models.Caller, input ListRequestsInput) ([]models.DocumentRequest, error) {
	filter := repository.DocumentRequestListFilter{
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Sort:      input.Sort,
		Direction: input.Direction,
		Limit:     input.Limit,
		Offset:    input.Offset,
	}

	switch {
	case caller.Role.Can(models.CapabilityViewAll):
	case caller.Role.Can(models.CapabilityViewOwn):
		id := caller.ID
		filter.RequesterID = &id
	default:
		return nil, models.NewUnauthorizedError("Role is not allowed to view requests")
	}

	if input.Status != "" {
		status := models.DocumentRequestStatus(input.Status)
		filter.Status = &status
	}
	return s.requests.List(ctx, filter)
}

// UpdateStatus applies a lifecycle transition to the request. The legality
// check runs against a loaded snapshot and is re-verified at commit time by
// the version guard; losing that race returns CONCURRENT_MODIFICATION.
func (s *DocumentRequestService) UpdateStatus(
	ctx context.Context,
	caller models.Caller,
	id uint,
	target models.DocumentRequestStatus,
	remarks string,
) (*models.DocumentRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := lifecycle.Fields{}
	if remarks != "" {
		fields[lifecycle.FieldRemarks] = remarks
	}

	_, effs, err := lifecycle.ApplyDocumentTransition(*request, caller.Role, target, fields)
	observability.LogTransition(ctx, "document_request", id, string(request.Status), string(target), err)
	if err != nil {
		observability.TransitionsTotal.WithLabelValues("document_request", string(target), observability.OutcomeRejected).Inc()
		return nil, err
	}

	if err := s.requests.UpdateStatusVersioned(ctx, id, request.Status, request.Version, target, remarks); err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.CodeConcurrentModification {
			observability.TransitionsTotal.WithLabelValues("document_request", string(target), observability.OutcomeConflict).Inc()
		}
		return nil, err
	}
	observability.TransitionsTotal.WithLabelValues("document_request", string(target), observability.OutcomeApplied).Inc()

	s.dispatcher.Dispatch(ctx, effs)
	return s.requests.GetByID(ctx, id)
}

func (s *DocumentRequestService) authorizeView(caller models.Caller, ownerID uint) error {
	if caller.Role.Can(models.CapabilityViewAll) {
		return nil
	}
	if caller.Role.Can(models.CapabilityViewOwn) && caller.ID == ownerID {
		return nil
	}
	return models.NewUnauthorizedError("Role is not allowed to view this request")
}
