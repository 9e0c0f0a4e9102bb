package server

import (
	"docmanager/internal/middleware"
	"docmanager/internal/models"
	"docmanager/internal/notifications"
	"docmanager/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ListNotifications returns the notifications visible to the caller,
// newest first.
func (s *Server) ListNotifications(c *fiber.Ctx) error {
	items, err := s.notificationService.List(c.UserContext(), middleware.CallerFrom(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(items)
}

// DismissNotification deletes one notification the caller can see.
func (s *Server) DismissNotification(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.notificationService.Dismiss(c.UserContext(), middleware.CallerFrom(c), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// NotificationStreamHandler upgrades to a WebSocket and relays the
// caller's notification channels until the peer disconnects.
func (s *Server) NotificationStreamHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(middleware.LocalUserID).(uint)
		role, _ := conn.Locals(middleware.LocalRole).(models.Role)
		caller := models.Caller{ID: userID, Role: role}

		channels := notifications.ChannelsFor(caller)
		if len(channels) == 0 {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		sub, err := s.notifier.Subscribe(s.shutdownCtx, channels...)
		if err != nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"realtime notifications unavailable"}`))
			_ = conn.Close()
			return
		}
		defer func() { _ = sub.Close() }()

		// Reader goroutine: the client sends nothing meaningful, but the
		// read loop detects disconnects.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ch := sub.Channel()
		for {
			select {
			case <-done:
				return
			case <-s.shutdownCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
					observability.GlobalLogger.Warn("notification stream write failed", "user_id", userID, "error", err)
					return
				}
			}
		}
	})
}
