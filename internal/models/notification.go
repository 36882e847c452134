package models

import "time"

// NotificationType categorizes in-app notifications.
type NotificationType string

const (
	NotificationInfo     NotificationType = "INFO"
	NotificationReminder NotificationType = "REMINDER"
	NotificationWarning  NotificationType = "WARNING"
)

// Notification is one in-app message for a user. Creating one may also
// enqueue an email; email failure never affects the stored row.
type Notification struct {
	ID        string           `db:"id" json:"id"`
	UserID    string           `db:"user_id" json:"user_id"`
	Type      NotificationType `db:"type" json:"type"`
	Title     string           `db:"title" json:"title"`
	Body      string           `db:"body" json:"body"`
	Read      bool             `db:"read" json:"read"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// CreateNotificationRequest payload for creating a notification.
type CreateNotificationRequest struct {
	Type      NotificationType `json:"type" validate:"required,oneof=INFO REMINDER WARNING"`
	Title     string           `json:"title" validate:"required,min=1,max=160"`
	Body      string           `json:"body" validate:"required"`
	SendEmail bool             `json:"send_email"`
}

// NotificationFilter narrows notification list queries.
type NotificationFilter struct {
	UnreadOnly bool
	Page       int
	Limit      int
}
