package services

import (
	"context"

	"partner-portal/models"
)

// Subscriber hands out per partner notification feeds.
type Subscriber interface {
	Subscribe(partnerID string) (<-chan models.Notification, func())
}

type NotificationService struct {
	notifications NotificationStore
	feed          Subscriber
}

func NewNotificationService(notifications NotificationStore, feed Subscriber) *NotificationService {
	return &NotificationService{notifications: notifications, feed: feed}
}

func (s *NotificationService) List(ctx context.Context, session models.PartnerSession, filter models.NotificationFilter) ([]models.Notification, error) {
	return s.notifications.List(ctx, session.PartnerID, filter)
}

func (s *NotificationService) MarkRead(ctx context.Context, session models.PartnerSession, id string) error {
	return s.notifications.MarkRead(ctx, session.PartnerID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, session models.PartnerSession) (int64, error) {
	return s.notifications.MarkAllRead(ctx, session.PartnerID)
}

func (s *NotificationService) Delete(ctx context.Context, session models.PartnerSession, id string) error {
	return s.notifications.Delete(ctx, session.PartnerID, id)
}

// Subscribe opens the partner's live feed. The feed is closed once ctx is done
// or cancel is called, whichever happens first.
func (s *NotificationService) Subscribe(ctx context.Context, session models.PartnerSession) (<-chan models.Notification, func()) {
	ch, cancel := s.feed.Subscribe(session.PartnerID)
	stop := context.AfterFunc(ctx, cancel)
	return ch, func() {
		stop()
		cancel()
	}
}
