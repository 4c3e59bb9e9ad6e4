package models

import "time"

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

type Notification struct {
	ID          string           `json:"id"`
	PartnerID   string           `json:"partner_id"`
	Title       string           `json:"title"`
	TitleAr     string           `json:"title_ar"`
	Message     string           `json:"message"`
	MessageAr   string           `json:"message_ar"`
	Type        NotificationType `json:"type"`
	RelatedType string           `json:"related_type,omitempty"`
	RelatedID   string           `json:"related_id,omitempty"`
	IsRead      bool             `json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
}

type NotificationFilter string

const (
	NotificationsAll    NotificationFilter = "all"
	NotificationsUnread NotificationFilter = "unread"
	NotificationsRead   NotificationFilter = "read"
)

func ParseNotificationFilter(s string) NotificationFilter {
	switch NotificationFilter(s) {
	case NotificationsUnread, NotificationsRead:
		return NotificationFilter(s)
	}
	return NotificationsAll
}
