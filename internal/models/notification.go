package models

import "time"

// NotificationType classifies a notification for display purposes.
type NotificationType string

const (
	// NotificationTypeInfo is a routine informational notice.
	NotificationTypeInfo NotificationType = "info"
	// NotificationTypeWarning flags a notice that needs attention.
	NotificationTypeWarning NotificationType = "warning"
)

// NotificationAudience selects who a notification is shown to.
type NotificationAudience string

const (
	// AudienceClient targets the single client referenced by ClientID.
	AudienceClient NotificationAudience = "client"
	// AudienceStaff targets every staff account.
	AudienceStaff NotificationAudience = "staff"
	// AudienceHead targets head and admin accounts.
	AudienceHead NotificationAudience = "head"
)

// Notification is a short-lived notice produced as a side effect of
// request creation and adjudication. Rows older than the retention window
// are pruned by a periodic sweep; nothing here is durable.
type Notification struct {
	ID        uint                 `gorm:"primaryKey" json:"id"`
	ClientID  *uint                `gorm:"index" json:"client,omitempty"`
	Client    *User                `gorm:"foreignKey:ClientID" json:"-"`
	Timestamp time.Time            `gorm:"autoCreateTime;index" json:"timestamp"`
	Content   string               `gorm:"size:512" json:"content"`
	Type      NotificationType     `gorm:"type:varchar(16);not null;default:'info'" json:"type"`
	Audience  NotificationAudience `gorm:"type:varchar(16);not null;default:'staff';index" json:"audience"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}
