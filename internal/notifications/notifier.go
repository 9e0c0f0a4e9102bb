// Package notifications fans stored notifications out to connected
// listeners over Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"docmanager/internal/models"

	"github.com/redis/go-redis/v9"
)

// Channel naming. Client notifications address a single user; audience
// notifications address every member of a role group.
const (
	clientChannelPrefix   = "notifications:user:"
	audienceChannelPrefix = "notifications:audience:"
)

// ClientChannel returns the pub/sub channel for one client.
func ClientChannel(clientID uint) string {
	return fmt.Sprintf("%s%d", clientChannelPrefix, clientID)
}

// AudienceChannel returns the pub/sub channel for an audience group.
func AudienceChannel(audience models.NotificationAudience) string {
	return audienceChannelPrefix + string(audience)
}

// RedisNotifier publishes notifications over Redis pub/sub. A nil client
// disables fan-out without failing callers.
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier creates a notifier backed by the given client. client
// may be nil.
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

// Publish sends the notification to its client channel when addressed to
// a single client, and always to its audience channel.
func (n *RedisNotifier) Publish(ctx context.Context, notification *models.Notification) error {
	if n.client == nil {
		return nil
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return models.NewTransportError(err)
	}

	if notification.ClientID != nil {
		if err := n.client.Publish(ctx, ClientChannel(*notification.ClientID), payload).Err(); err != nil {
			return models.NewTransportError(err)
		}
	}
	if err := n.client.Publish(ctx, AudienceChannel(notification.Audience), payload).Err(); err != nil {
		return models.NewTransportError(err)
	}
	return nil
}

// Subscribe opens a pub/sub subscription for the given channels. The
// caller owns the returned subscription and must close it.
func (n *RedisNotifier) Subscribe(ctx context.Context, channels ...string) (*redis.PubSub, error) {
	if n.client == nil {
		return nil, models.NewTransportError(fmt.Errorf("notification fan-out disabled, no Redis client"))
	}
	sub := n.client.Subscribe(ctx, channels...)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, models.NewTransportError(err)
	}
	return sub, nil
}

// ChannelsFor returns the channels a caller may listen on, derived from
// the same audience scoping the notification listing uses.
func ChannelsFor(caller models.Caller) []string {
	switch caller.Role {
	case models.RoleClient:
		return []string{ClientChannel(caller.ID)}
	case models.RoleStaff, models.RolePlanning:
		return []string{AudienceChannel(models.AudienceStaff)}
	case models.RoleHead, models.RoleAdmin:
		return []string{
			AudienceChannel(models.AudienceStaff),
			AudienceChannel(models.AudienceHead),
		}
	default:
		return nil
	}
}
