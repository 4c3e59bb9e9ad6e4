package store

import (
	"context"

	"partner-portal/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

type ClickStore struct {
	app core.App
}

func NewClickStore(app core.App) *ClickStore {
	return &ClickStore{app: app}
}

func (s *ClickStore) ListByPartner(ctx context.Context, partnerID string, r Range) ([]models.ClickLog, error) {
	records, err := findAll(ctx, s.app, CollectionClickLogs,
		dbx.And(dbx.HashExp{"partner": partnerID}, r.expression("clicked_at")),
		"clicked_at DESC",
	)
	if err != nil {
		return nil, err
	}

	clicks := make([]models.ClickLog, 0, len(records))
	for _, record := range records {
		clicks = append(clicks, models.ClickLog{
			ID:         record.Id,
			PartnerID:  record.GetString("partner"),
			ActivityID: record.GetString("activity"),
			ClickedAt:  getTime(record, "clicked_at"),
		})
	}
	return clicks, nil
}
