package lifecycle

import "docmanager/internal/models"

// EmailTemplateRequestUpdate is the template used for adjudication emails.
const EmailTemplateRequestUpdate = "request_update"

// Effect is a side effect ordered by the engine. Effects are executed by
// the dispatcher after the status change has been persisted; a delivery
// failure never rolls the transition back.
type Effect interface {
	effect()
}

// NotificationEffect creates a notification row. ClientID is set when the
// audience is a single client.
type NotificationEffect struct {
	ClientID *uint
	Audience models.NotificationAudience
	Type     models.NotificationType
	Content  string
}

func (NotificationEffect) effect() {}

// EmailEffect sends a templated email to the requester.
type EmailEffect struct {
	TemplateID string
	Recipient  string
	Context    map[string]string
}

func (EmailEffect) effect() {}
