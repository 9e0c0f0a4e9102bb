package repository

import (
	"context"
	"errors"
	"time"

	"docmanager/internal/lifecycle"
	"docmanager/internal/models"
	"docmanager/internal/observability"

	"gorm.io/gorm"
)

// AuthorizationRequestListFilter narrows and orders an authorization
// request listing. Pending requests always sort first.
type AuthorizationRequestListFilter struct {
	RequesterID *uint
	Status      *models.AuthorizationRequestStatus
	StartDate   *time.Time
	EndDate     *time.Time
	Sort        lifecycle.SortField
	Direction   lifecycle.Direction
	Limit       int
	Offset      int
}

// AuthorizationRequestRepository defines the interface for authorization
// request data operations, including per-unit adjudication.
type AuthorizationRequestRepository interface {
	Create(ctx context.Context, request *models.AuthorizationRequest) error
	GetByID(ctx context.Context, id uint) (*models.AuthorizationRequest, error)
	GetUnitByID(ctx context.Context, id uint) (*models.AuthorizationRequestUnit, error)
	List(ctx context.Context, filter AuthorizationRequestListFilter) ([]models.AuthorizationRequest, error)
	UpdateStatusVersioned(ctx context.Context, id uint, fromStatus models.AuthorizationRequestStatus, fromVersion int, toStatus models.AuthorizationRequestStatus, remarks string) error
	UpdateUnitStatusVersioned(ctx context.Context, id uint, fromStatus models.AuthorizationRequestStatus, fromVersion int, toStatus models.AuthorizationRequestStatus, remarks string) error
}

type authorizationRequestRepository struct {
	db   *gorm.DB
	logs *observability.RepoLogger
}

// NewAuthorizationRequestRepository creates a new authorization request
// repository.
func NewAuthorizationRequestRepository(db *gorm.DB) AuthorizationRequestRepository {
	return &authorizationRequestRepository{
		db:   db,
		logs: observability.NewRepoLogger("authorization_requests"),
	}
}

func (r *authorizationRequestRepository) Create(ctx context.Context, request *models.AuthorizationRequest) error {
	defer observability.TrackQuery("create", "authorization_requests")()
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		r.logs.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.logs.LogWrite(ctx, "create", map[string]interface{}{"id": request.ID})
	return nil
}

func (r *authorizationRequestRepository) GetByID(ctx context.Context, id uint) (*models.AuthorizationRequest, error) {
	defer observability.TrackQuery("get", "authorization_requests")()
	var request models.AuthorizationRequest
	if err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Units").
		Preload("Units.Document").
		First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Authorization request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

func (r *authorizationRequestRepository) GetUnitByID(ctx context.Context, id uint) (*models.AuthorizationRequestUnit, error) {
	defer observability.TrackQuery("get_unit", "authorization_request_units")()
	var unit models.AuthorizationRequestUnit
	if err := r.db.WithContext(ctx).
		Preload("Document").
		First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Authorization request unit", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &unit, nil
}

func (r *authorizationRequestRepository) List(ctx context.Context, filter AuthorizationRequestListFilter) ([]models.AuthorizationRequest, error) {
	defer observability.TrackQuery("list", "authorization_requests")()

	order, err := lifecycle.AuthorizationRequestOrderClause(filter.Sort, filter.Direction)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.AuthorizationRequest{}).
		Preload("Requester").
		Preload("Units").
		Preload("Units.Document")

	if filter.RequesterID != nil {
		query = query.Where("requester_id = ?", *filter.RequesterID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		query = query.Where("date_requested BETWEEN ? AND ?", *filter.StartDate, *filter.EndDate)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var requests []models.AuthorizationRequest
	if err := query.Order(order).Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *authorizationRequestRepository) UpdateStatusVersioned(
	ctx context.Context,
	id uint,
	fromStatus models.AuthorizationRequestStatus,
	fromVersion int,
	toStatus models.AuthorizationRequestStatus,
	remarks string,
) error {
	defer observability.TrackQuery("update_status", "authorization_requests")()
	return r.guardedUpdate(ctx, &models.AuthorizationRequest{}, "Authorization request", id, fromStatus, fromVersion, toStatus, remarks)
}

func (r *authorizationRequestRepository) UpdateUnitStatusVersioned(
	ctx context.Context,
	id uint,
	fromStatus models.AuthorizationRequestStatus,
	fromVersion int,
	toStatus models.AuthorizationRequestStatus,
	remarks string,
) error {
	defer observability.TrackQuery("update_unit_status", "authorization_request_units")()
	return r.guardedUpdate(ctx, &models.AuthorizationRequestUnit{}, "Authorization request unit", id, fromStatus, fromVersion, toStatus, remarks)
}

func (r *authorizationRequestRepository) guardedUpdate(
	ctx context.Context,
	model interface{},
	resource string,
	id uint,
	fromStatus models.AuthorizationRequestStatus,
	fromVersion int,
	toStatus models.AuthorizationRequestStatus,
	remarks string,
) error {
	updates := map[string]interface{}{
		"status":  toStatus,
		"version": fromVersion + 1,
	}
	if remarks != "" {
		updates["remarks"] = remarks
	}

	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND status = ? AND version = ?", id, fromStatus, fromVersion).
		Updates(updates)
	if result.Error != nil {
		r.logs.LogError(ctx, result.Error, "update_status")
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewConcurrentModificationError(resource, id)
	}
	r.logs.LogWrite(ctx, "update_status", map[string]interface{}{
		"id": id, "from": fromStatus, "to": toStatus,
	})
	return nil
}
