package service

import (
	"context"
	"strings"

	"docmanager/internal/lifecycle"
	"docmanager/internal/models"
	"docmanager/internal/observability"
	"docmanager/internal/repository"
)

// AuthorizationRequestService handles authorization request submission,
// listing, and adjudication of both whole requests and single units.
type AuthorizationRequestService struct {
	requests   repository.AuthorizationRequestRepository
	documents  repository.DocumentRepository
	dispatcher Dispatcher
}

// NewAuthorizationRequestService creates a new authorization request
// service.
func NewAuthorizationRequestService(
	requests repository.AuthorizationRequestRepository,
	documents repository.DocumentRepository,
	dispatcher Dispatcher,
) *AuthorizationRequestService {
	return &AuthorizationRequestService{
		requests:   requests,
		documents:  documents,
		dispatcher: dispatcher,
	}
}

// CreateAuthorizationRequestInput is the payload for filing an
// authorization request.
type CreateAuthorizationRequestInput struct {
	College string             `json:"college"`
	Purpose string             `json:"purpose"`
	Units   []RequestUnitInput `json:"documents"`
}

// Create files a new authorization request in the pending state.
func (s *AuthorizationRequestService) Create(ctx context.Context, caller models.Caller, input CreateAuthorizationRequestInput) (*models.AuthorizationRequest, error) {
	if !caller.Role.Can(models.CapabilitySubmit) {
		return nil, models.NewUnauthorizedError("Role is not allowed to submit requests")
	}
	if strings.TrimSpace(input.College) == "" {
		return nil, models.NewValidationError("College is required")
	}
	if strings.TrimSpace(input.Purpose) == "" {
		return nil, models.NewValidationError("Purpose is required")
	}
	if len(input.Units) == 0 {
		return nil, models.NewEmptyUnitsError()
	}

	units := make([]models.AuthorizationRequestUnit, 0, len(input.Units))
	for _, u := range input.Units {
		if u.Copies < 1 {
			return nil, models.NewValidationError("Copies must be at least 1")
		}
		if _, err := s.documents.GetByID(ctx, u.DocumentID); err != nil {
			return nil, err
		}
		units = append(units, models.AuthorizationRequestUnit{
			DocumentID: u.DocumentID,
			Copies:     u.Copies,
			Status:     models.AuthorizationRequestStatusPending,
		})
	}

	request := &models.AuthorizationRequest{
		RequesterID: caller.ID,
		College:     strings.TrimSpace(input.College),
		Purpose:     strings.TrimSpace(input.Purpose),
		Status:      models.AuthorizationRequestStatusPending,
		Units:       units,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, lifecycle.AuthorizationCreationEffects(*request))
	return s.requests.GetByID(ctx, request.ID)
}

// Get returns a single request. Clients see only their own.
func (s *AuthorizationRequestService) Get(ctx context.Context, caller models.Caller, id uint) (*models.AuthorizationRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(caller, request.RequesterID); err != nil {
		return nil, err
	}
	return request, nil
}

// List returns requests visible to the caller, pending first.
func (s *AuthorizationRequestService) List(ctx context.Context, caller models.Caller, input ListRequestsInput) ([]models.AuthorizationRequest, error) {
	filter := repository.AuthorizationRequestListFilter{
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
		status := models.AuthorizationRequestStatus(input.Status)
		filter.Status = &status
	}
	return s.requests.List(ctx, filter)
}

// UpdateStatus applies a lifecycle transition to the request header.
func (s *AuthorizationRequestService) UpdateStatus(
	ctx context.Context,
	caller models.Caller,
	id uint,
	target models.AuthorizationRequestStatus,
	remarks string,
) (*models.AuthorizationRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := lifecycle.Fields{}
	if remarks != "" {
		fields[lifecycle.FieldRemarks] = remarks
	}

	_, effs, err := lifecycle.ApplyAuthorizationTransition(*request, caller.Role, target, fields)
	observability.LogTransition(ctx, "authorization_request", id, string(request.Status), string(target), err)
	if err != nil {
		observability.TransitionsTotal.WithLabelValues("authorization_request", string(target), observability.OutcomeRejected).Inc()
		return nil, err
	}

	if err := s.requests.UpdateStatusVersioned(ctx, id, request.Status, request.Version, target, remarks); err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.CodeConcurrentModification {
			observability.TransitionsTotal.WithLabelValues("authorization_request", string(target), observability.OutcomeConflict).Inc()
		}
		return nil, err
	}
	observability.TransitionsTotal.WithLabelValues("authorization_request", string(target), observability.OutcomeApplied).Inc()

	s.dispatcher.Dispatch(ctx, effs)
	return s.requests.GetByID(ctx, id)
}

// UpdateUnitStatus applies a lifecycle transition to a single unit of the
// request. The parent request supplies the requester to notify.
func (s *AuthorizationRequestService) UpdateUnitStatus(
	ctx context.Context,
	caller models.Caller,
	requestID, unitID uint,
	target models.AuthorizationRequestStatus,
	remarks string,
) (*models.AuthorizationRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	unit, err := s.requests.GetUnitByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit.AuthorizationRequestID != requestID {
		return nil, models.NewNotFoundError("Authorization request unit", unitID)
	}

	fields := lifecycle.Fields{}
	if remarks != "" {
		fields[lifecycle.FieldRemarks] = remarks
	}

	_, effs, err := lifecycle.ApplyAuthorizationUnitTransition(*unit, *request, caller.Role, target, fields)
	observability.LogTransition(ctx, "authorization_request_unit", unitID, string(unit.Status), string(target), err)
	if err != nil {
		observability.TransitionsTotal.WithLabelValues("authorization_request_unit", string(target), observability.OutcomeRejected).Inc()
		return nil, err
	}

	if err := s.requests.UpdateUnitStatusVersioned(ctx, unitID, unit.Status, unit.Version, target, remarks); err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.CodeConcurrentModification {
			observability.TransitionsTotal.WithLabelValues("authorization_request_unit", string(target), observability.OutcomeConflict).Inc()
		}
		return nil, err
	}
	observability.TransitionsTotal.WithLabelValues("authorization_request_unit", string(target), observability.OutcomeApplied).Inc()

	s.dispatcher.Dispatch(ctx, effs)
	return s.requests.GetByID(ctx, requestID)
}

func (s *AuthorizationRequestService) authorizeView(caller models.Caller, ownerID uint) error {
	if caller.Role.Can(models.CapabilityViewAll) {
		return nil
	}
	if caller.Role.Can(models.CapabilityViewOwn) && caller.ID == ownerID {
		return nil
	}
	return models.NewUnauthorizedError("Role is not allowed to view this request")
}
