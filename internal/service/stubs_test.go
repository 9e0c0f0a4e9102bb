package service

import (
	"context"
	"testing"
	"time"

	"docmanager/internal/effects"
	"docmanager/internal/lifecycle"
	"docmanager/internal/models"
	"docmanager/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertCode fails unless err is an AppError carrying the given code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

type recordingDispatcher struct {
	dispatched [][]lifecycle.Effect
}

func (d *recordingDispatcher) Dispatch(_ context.Context, effs []lifecycle.Effect) effects.Report {
	d.dispatched = append(d.dispatched, effs)
	return effects.Report{Delivered: len(effs)}
}

func (d *recordingDispatcher) all() []lifecycle.Effect {
	var out []lifecycle.Effect
	for _, batch := range d.dispatched {
		out = append(out, batch...)
	}
	return out
}

type stubUserRepo struct {
	createFn     func(ctx context.Context, user *models.User) error
	getByIDFn    func(ctx context.Context, id uint) (*models.User, error)
	getByEmailFn func(ctx context.Context, email string) (*models.User, error)
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, user)
	}
	return nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("User", id)
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getByEmailFn != nil {
		return s.getByEmailFn(ctx, email)
	}
	return nil, models.NewNotFoundError("User", email)
}

type stubDocumentRepo struct {
	getByIDFn func(ctx context.Context, id uint) (*models.Document, error)
	listFn    func(ctx context.Context, filter repository.DocumentListFilter) ([]models.Document, error)
	createFn  func(ctx context.Context, document *models.Document) error
	updateFn  func(ctx context.Context, document *models.Document) error
	deleteFn  func(ctx context.Context, id uint) error
}

func (s *stubDocumentRepo) Create(ctx context.Context, document *models.Document) error {
	if s.createFn != nil {
		return s.createFn(ctx, document)
	}
	return nil
}

func (s *stubDocumentRepo) GetByID(ctx context.Context, id uint) (*models.Document, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return &models.Document{ID: id, Name: "doc"}, nil
}

func (s *stubDocumentRepo) List(ctx context.Context, filter repository.DocumentListFilter) ([]models.Document, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter)
	}
	return nil, nil
}

func (s *stubDocumentRepo) Update(ctx context.Context, document *models.Document) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, document)
	}
	return nil
}

func (s *stubDocumentRepo) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

type stubDocumentRequestRepo struct {
	createFn       func(ctx context.Context, request *models.DocumentRequest) error
	getByIDFn      func(ctx context.Context, id uint) (*models.DocumentRequest, error)
	listFn         func(ctx context.Context, filter repository.DocumentRequestListFilter) ([]models.DocumentRequest, error)
	updateStatusFn func(ctx context.Context, id uint, fromStatus models.DocumentRequestStatus, fromVersion int, toStatus models.DocumentRequestStatus, remarks string) error
}

func (s *stubDocumentRequestRepo) Create(ctx context.Context, request *models.DocumentRequest) error {
	if s.createFn != nil {
		return s.createFn(ctx, request)
	}
	request.ID = 1
	return nil
}

func (s *stubDocumentRequestRepo) GetByID(ctx context.Context, id uint) (*models.DocumentRequest, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("Document request", id)
}

func (s *stubDocumentRequestRepo) List(ctx context.Context, filter repository.DocumentRequestListFilter) ([]models.DocumentRequest, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter)
	}
	return nil, nil
}

func (s *stubDocumentRequestRepo) UpdateStatusVersioned(ctx context.Context, id uint, fromStatus models.DocumentRequestStatus, fromVersion int, toStatus models.DocumentRequestStatus, remarks string) error {
	if s.updateStatusFn != nil {
		return s.updateStatusFn(ctx, id, fromStatus, fromVersion, toStatus, remarks)
	}
	return nil
}

type stubAuthorizationRequestRepo struct {
	createFn           func(ctx context.Context, request *models.AuthorizationRequest) error
	getByIDFn          func(ctx context.Context, id uint) (*models.AuthorizationRequest, error)
	getUnitByIDFn      func(ctx context.Context, id uint) (*models.AuthorizationRequestUnit, error)
	listFn             func(ctx context.Context, filter repository.AuthorizationRequestListFilter) ([]models.AuthorizationRequest, error)
	updateStatusFn     func(ctx context.Context, id uint, fromStatus models.AuthorizationRequestStatus, fromVersion int, toStatus models.AuthorizationRequestStatus, remarks string) error
	updateUnitStatusFn func(ctx context.Context, id uint, fromStatus models.AuthorizationRequestStatus, fromVersion int, toStatus models.AuthorizationRequestStatus, remarks string) error
}

func (s *stubAuthorizationRequestRepo) Create(ctx context.Context, request *models.AuthorizationRequest) error {
	if s.createFn != nil {
		return s.createFn(ctx, request)
	}
	request.ID = 1
	return nil
}

func (s *stubAuthorizationRequestRepo) GetByID(ctx context.Context, id uint) (*models.AuthorizationRequest, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("Authorization request", id)
}

func (s *stubAuthorizationRequestRepo) GetUnitByID(ctx context.Context, id uint) (*models.AuthorizationRequestUnit, error) {
	if s.getUnitByIDFn != nil {
		return s.getUnitByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("Authorization request unit", id)
}

func (s *stubAuthorizationRequestRepo) List(ctx context.Context, filter repository.AuthorizationRequestListFilter) ([]models.AuthorizationRequest, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter)
	}
	return nil, nil
}

func (s *stubAuthorizationRequestRepo) UpdateStatusVersioned(ctx context.Context, id uint, fromStatus models.AuthorizationRequestStatus, fromVersion int, toStatus models.AuthorizationRequestStatus, remarks string) error {
	if s.updateStatusFn != nil {
		return s.updateStatusFn(ctx, id, fromStatus, fromVersion, toStatus, remarks)
	}
	return nil
}

func (s *stubAuthorizationRequestRepo) UpdateUnitStatusVersioned(ctx context.Context, id uint, fromStatus models.AuthorizationRequestStatus, fromVersion int, toStatus models.AuthorizationRequestStatus, remarks string) error {
	if s.updateUnitStatusFn != nil {
		return s.updateUnitStatusFn(ctx, id, fromStatus, fromVersion, toStatus, remarks)
	}
	return nil
}

type stubServiceNotificationRepo struct {
	createFn           func(ctx context.Context, n *models.Notification) error
	getByIDFn          func(ctx context.Context, id uint) (*models.Notification, error)
	listForClientFn    func(ctx context.Context, clientID uint) ([]models.Notification, error)
	listForAudiencesFn func(ctx context.Context, audiences []models.NotificationAudience) ([]models.Notification, error)
	deleteFn           func(ctx context.Context, id uint) error
	pruneFn            func(ctx context.Context, olderThan time.Time) (int64, error)
}

func (s *stubServiceNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if s.createFn != nil {
		return s.createFn(ctx, n)
	}
	return nil
}

func (s *stubServiceNotificationRepo) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("Notification", id)
}

func (s *stubServiceNotificationRepo) ListForClient(ctx context.Context, clientID uint) ([]models.Notification, error) {
	if s.listForClientFn != nil {
		return s.listForClientFn(ctx, clientID)
	}
	return nil, nil
}

func (s *stubServiceNotificationRepo) ListForAudiences(ctx context.Context, audiences []models.NotificationAudience) ([]models.Notification, error) {
	if s.listForAudiencesFn != nil {
		return s.listForAudiencesFn(ctx, audiences)
	}
	return nil, nil
}

func (s *stubServiceNotificationRepo) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *stubServiceNotificationRepo) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	if s.pruneFn != nil {
		return s.pruneFn(ctx, olderThan)
	}
	return 0, nil
}
