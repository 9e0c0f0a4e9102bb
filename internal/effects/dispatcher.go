package effects

import (
	"context"
	"fmt"
	"time"

	"docmanager/internal/lifecycle"
	"docmanager/internal/models"
	"docmanager/internal/observability"
	"docmanager/internal/repository"
)

// Notifier pushes a stored notification to connected listeners. A nil or
// unavailable broker is tolerated; the notification row is the source of
// truth and the push is best effort.
type Notifier interface {
	Publish(ctx context.Context, notification *models.Notification) error
}

// EffectFailure records a single effect that could not be delivered.
type EffectFailure struct {
	Effect lifecycle.Effect
	Err    error
}

// Report summarizes a dispatch run. Failures never abort the run and are
// never surfaced as the transition's own error.
type Report struct {
	Delivered int
	Failures  []EffectFailure
}

// Failed reports whether any effect in the run failed.
func (r Report) Failed() bool { return len(r.Failures) > 0 }

// Dispatcher executes effects in the order the engine emitted them. The
// transition has already been persisted by the time Dispatch runs.
type Dispatcher struct {
	notifications repository.NotificationRepository
	notifier      Notifier
	mailer        Mailer
}

// NewDispatcher creates a dispatcher. notifier may be nil when no broker
// is configured; mailer may be nil when no relay is configured.
func NewDispatcher(notifications repository.NotificationRepository, notifier Notifier, mailer Mailer) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		notifier:      notifier,
		mailer:        mailer,
	}
}

// Dispatch runs every effect, isolating failures per effect so one failed
// delivery never blocks the rest.
func (d *Dispatcher) Dispatch(ctx context.Context, effs []lifecycle.Effect) Report {
	var report Report
	for _, eff := range effs {
		var err error
		switch e := eff.(type) {
		case lifecycle.NotificationEffect:
			err = d.deliverNotification(ctx, e)
		case lifecycle.EmailEffect:
			err = d.deliverEmail(ctx, e)
		default:
			err = models.NewTransportError(fmt.Errorf("unknown effect type %T", eff))
		}
		if err != nil {
			observability.EffectFailuresTotal.WithLabelValues(effectKind(eff)).Inc()
			observability.LogEffectFailure(ctx, effectKind(eff), err)
			report.Failures = append(report.Failures, EffectFailure{Effect: eff, Err: err})
			continue
		}
		report.Delivered++
	}
	return report
}

func (d *Dispatcher) deliverNotification(ctx context.Context, eff lifecycle.NotificationEffect) error {
	notification := &models.Notification{
		ClientID:  eff.ClientID,
		Timestamp: time.Now().UTC(),
		Content:   eff.Content,
		Type:      eff.Type,
		Audience:  eff.Audience,
	}
	if err := d.notifications.Create(ctx, notification); err != nil {
		return err
	}
	if d.notifier != nil {
		// Push failures are logged but do not fail the effect; the row
		// is already persisted and pollable.
		if err := d.notifier.Publish(ctx, notification); err != nil {
			observability.LogEffectFailure(ctx, "notification_push", err)
		}
	}
	return nil
}

func (d *Dispatcher) deliverEmail(ctx context.Context, eff lifecycle.EmailEffect) error {
	if d.mailer == nil {
		return nil
	}
	return d.mailer.Send(ctx, eff.TemplateID, eff.Recipient, eff.Context)
}

func effectKind(eff lifecycle.Effect) string {
	switch eff.(type) {
	case lifecycle.NotificationEffect:
		return "notification"
	case lifecycle.EmailEffect:
		return "email"
	default:
		return "unknown"
	}
}
