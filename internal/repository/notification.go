package repository

import (
	"context"
	"errors"
	"time"

	"docmanager/internal/models"
	"docmanager/internal/observability"

	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification data
// operations. Retention is an explicit Prune call driven by a scheduled
// sweep, not a hook on writes.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	ListForClient(ctx context.Context, clientID uint) ([]models.Notification, error)
	ListForAudiences(ctx context.Context, audiences []models.NotificationAudience) ([]models.Notification, error)
	Delete(ctx context.Context, id uint) error
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
}

type notificationRepository struct {
	db   *gorm.DB
	logs *observability.RepoLogger
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{
		db:   db,
		logs: observability.NewRepoLogger("notifications"),
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	defer observability.TrackQuery("create", "notifications")()
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		r.logs.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Notification", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &notification, nil
}

func (r *notificationRepository) ListForClient(ctx context.Context, clientID uint) ([]models.Notification, error) {
	defer observability.TrackQuery("list", "notifications")()
	var notifications []models.Notification
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("timestamp DESC").
		Find(&notifications).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return notifications, nil
}

func (r *notificationRepository) ListForAudiences(ctx context.Context, audiences []models.NotificationAudience) ([]models.Notification, error) {
	defer observability.TrackQuery("list", "notifications")()
	var notifications []models.Notification
	if err := r.db.WithContext(ctx).
		Where("audience IN ?", audiences).
		Order("timestamp DESC").
		Find(&notifications).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return notifications, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "notifications")()
	result := r.db.WithContext(ctx).Delete(&models.Notification{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

func (r *notificationRepository) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	defer observability.TrackQuery("prune", "notifications")()
	result := r.db.WithContext(ctx).
		Where("timestamp < ?", olderThan).
		Delete(&models.Notification{})
	if result.Error != nil {
		r.logs.LogError(ctx, result.Error, "prune")
		return 0, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		observability.NotificationsPruned.Add(float64(result.RowsAffected))
	}
	return result.RowsAffected, nil
}
