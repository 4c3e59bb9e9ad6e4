package store

import (
	"context"
	"fmt"

	"partner-portal/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

type NotificationStore struct {
	app core.App
}

func NewNotificationStore(app core.App) *NotificationStore {
	return &NotificationStore{app: app}
}

func (s *NotificationStore) List(ctx context.Context, partnerID string, filter models.NotificationFilter) ([]models.Notification, error) {
	exp := dbx.HashExp{"partner": partnerID}
	switch filter {
	case models.NotificationsUnread:
		exp["is_read"] = false
	case models.NotificationsRead:
		exp["is_read"] = true
	}

	records, err := findAll(ctx, s.app, CollectionNotifications, exp, "created DESC")
	if err != nil {
		return nil, err
	}

	notifications := make([]models.Notification, 0, len(records))
	for _, record := range records {
		notifications = append(notifications, NotificationFromRecord(record))
	}
	return notifications, nil
}

func (s *NotificationStore) MarkRead(ctx context.Context, partnerID, id string) error {
	record, err := findOne(ctx, s.app, CollectionNotifications, owned(id, partnerID))
	if err != nil {
		return err
	}
	record.Set("is_read", true)
	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("s.app.SaveWithContext(): %w", err)
	}
	return nil
}

// MarkAllRead flags every unread notification of the partner and returns how many changed.
func (s *NotificationStore) MarkAllRead(ctx context.Context, partnerID string) (int64, error) {
	result, err := s.app.DB().Update(CollectionNotifications,
		dbx.Params{"is_read": true},
		dbx.HashExp{"partner": partnerID, "is_read": false},
	).WithContext(ctx).Execute()
	if err != nil {
		return 0, fmt.Errorf("s.app.DB().Update(): %w", err)
	}
	return result.RowsAffected()
}

func (s *NotificationStore) Delete(ctx context.Context, partnerID, id string) error {
	record, err := findOne(ctx, s.app, CollectionNotifications, owned(id, partnerID))
	if err != nil {
		return err
	}
	if err := s.app.DeleteWithContext(ctx, record); err != nil {
		return fmt.Errorf("s.app.DeleteWithContext(): %w", err)
	}
	return nil
}

func notificationRecord(app core.App, n models.Notification) (*core.Record, error) {
	record, err := newRecord(app, CollectionNotifications)
	if err != nil {
		return nil, err
	}
	record.Set("partner", n.PartnerID)
	record.Set("title", n.Title)
	record.Set("title_ar", n.TitleAr)
	record.Set("message", n.Message)
	record.Set("message_ar", n.MessageAr)
	record.Set("type", string(n.Type))
	record.Set("related_type", n.RelatedType)
	record.Set("related_id", n.RelatedID)
	record.Set("is_read", n.IsRead)
	return record, nil
}

// NotificationFromRecord is exported for the realtime insert hook.
func NotificationFromRecord(record *core.Record) models.Notification {
	return models.Notification{
		ID:          record.Id,
		PartnerID:   record.GetString("partner"),
		Title:       record.GetString("title"),
		TitleAr:     record.GetString("title_ar"),
		Message:     record.GetString("message"),
		MessageAr:   record.GetString("message_ar"),
		Type:        models.NotificationType(record.GetString("type")),
		RelatedType: record.GetString("related_type"),
		RelatedID:   record.GetString("related_id"),
		IsRead:      record.GetBool("is_read"),
		CreatedAt:   getTime(record, "created"),
	}
}
