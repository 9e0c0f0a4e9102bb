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

// DocumentRequestListFilter narrows and orders a request listing. The
// order always places unclaimed requests first; Sort and Direction only
// control the order within each bucket.
type DocumentRequestListFilter struct {
	RequesterID *uint
	Status      *models.DocumentRequestStatus
	StartDate   *time.Time
	EndDate     *time.Time
	Sort        lifecycle.SortField
	Direction   lifecycle.Direction
	Limit       int
	Offset      int
}

// DocumentRequestRepository defines the interface for document request
// data operations.
type DocumentRequestRepository interface {
	Create(ctx context.Context, request *models.DocumentRequest) error
	GetByID(ctx context.Context, id uint) (*models.DocumentRequest, error)
	List(ctx context.Context, filter DocumentRequestListFilter) ([]models.DocumentRequest, error)
	// UpdateStatusVersioned commits a transition with the source status and
	// version in the WHERE clause, so the legality check established against
	// the loaded snapshot still holds at commit time. Zero affected rows
	// means the snapshot went stale and the caller must refetch and retry.
	UpdateStatusVersioned(ctx context.Context, id uint, fromStatus models.DocumentRequestStatus, fromVersion int, toStatus models.DocumentRequestStatus, remarks string) error
}

type documentRequestRepository struct {
	db   *gorm.DB
	logs *observability.RepoLogger
}

// NewDocumentRequestRepository creates a new document request repository.
func NewDocumentRequestRepository(db *gorm.DB) DocumentRequestRepository {
	return &documentRequestRepository{
		db:   db,
		logs: observability.NewRepoLogger("document_requests"),
	}
}

func (r *documentRequestRepository) Create(ctx context.Context, request *models.DocumentRequest) error {
	defer observability.TrackQuery("create", "document_requests")()
	// Units are created in the same transaction through the association.
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		r.logs.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.logs.LogWrite(ctx, "create", map[string]interface{}{"id": request.ID})
	return nil
}

func (r *documentRequestRepository) GetByID(ctx context.Context, id uint) (*models.DocumentRequest, error) {
	defer observability.TrackQuery("get", "document_requests")()
	var request models.DocumentRequest
	if err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Units").
		Preload("Units.Document").
		First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Document request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

func (r *documentRequestRepository) List(ctx context.Context, filter DocumentRequestListFilter) ([]models.DocumentRequest, error) {
	defer observability.TrackQuery("list", "document_requests")()

	order, err := lifecycle.DocumentRequestOrderClause(filter.Sort, filter.Direction)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.DocumentRequest{}).
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

	var requests []models.DocumentRequest
	if err := query.Order(order).Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *documentRequestRepository) UpdateStatusVersioned(
	ctx context.Context,
	id uint,
	fromStatus models.DocumentRequestStatus,
	fromVersion int,
	toStatus models.DocumentRequestStatus,
	remarks string,
) error {
	defer observability.TrackQuery("update_status", "document_requests")()

	updates := map[string]interface{}{
		"status":  toStatus,
		"version": fromVersion + 1,
	}
	if remarks != "" {
		updates["remarks"] = remarks
	}

	result := r.db.WithContext(ctx).
		Model(&models.DocumentRequest{}).
		Where("id = ? AND status = ? AND version = ?", id, fromStatus, fromVersion).
		Updates(updates)
	if result.Error != nil {
		r.logs.LogError(ctx, result.Error, "update_status")
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewConcurrentModificationError("Document request", id)
	}
	r.logs.LogWrite(ctx, "update_status", map[string]interface{}{
		"id": id, "from": fromStatus, "to": toStatus,
	})
	return nil
}
