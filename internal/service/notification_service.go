package service

import (
	"context"
	"time"

	"docmanager/internal/models"
	"docmanager/internal/repository"
)

// NotificationService lists and dismisses notifications with the same
// audience scoping the realtime channels use: clients see their own rows,
// staff and planning see the staff feed, head and admin see staff and head.
type NotificationService struct {
	notifications repository.NotificationRepository
	retention     time.Duration
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notifications repository.NotificationRepository, retention time.Duration) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		retention:     retention,
	}
}

// AudiencesFor maps a role to the audience feeds it may read. An empty
// result means the caller reads nothing.
func AudiencesFor(role models.Role) []models.NotificationAudience {
	switch role {
	case models.RoleStaff, models.RolePlanning:
		return []models.NotificationAudience{models.AudienceStaff}
	case models.RoleHead, models.RoleAdmin:
		return []models.NotificationAudience{models.AudienceStaff, models.AudienceHead}
	default:
		return nil
	}
}

// List returns the notifications visible to the caller, newest first.
func (s *NotificationService) List(ctx context.Context, caller models.Caller) ([]models.Notification, error) {
	if caller.Role == models.RoleClient {
		return s.notifications.ListForClient(ctx, caller.ID)
	}
	audiences := AudiencesFor(caller.Role)
	if len(audiences) == 0 {
		return nil, models.NewUnauthorizedError("Role is not allowed to view notifications")
	}
	return s.notifications.ListForAudiences(ctx, audiences)
}

// Dismiss deletes one notification. Callers may only dismiss what they can
// see: clients their own rows, others the audiences of their role.
func (s *NotificationService) Dismiss(ctx context.Context, caller models.Caller, id uint) error {
	if !caller.Role.Can(models.CapabilityDeleteNotification) {
		return models.NewUnauthorizedError("Role is not allowed to dismiss notifications")
	}
	notification, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.visibleTo(caller, notification) {
		return models.NewUnauthorizedError("Role is not allowed to dismiss this notification")
	}
	return s.notifications.Delete(ctx, id)
}

// Sweep removes notifications older than the retention window and returns
// how many were removed. Called on a schedule by the server.
func (s *NotificationService) Sweep(ctx context.Context) (int64, error) {
	return s.notifications.Prune(ctx, time.Now().Add(-s.retention))
}

func (s *NotificationService) visibleTo(caller models.Caller, notification *models.Notification) bool {
	if caller.Role == models.RoleClient {
		return notification.ClientID != nil && *notification.ClientID == caller.ID
	}
	for _, audience := range AudiencesFor(caller.Role) {
		if audience == notification.Audience {
			return true
		}
	}
	return false
}
