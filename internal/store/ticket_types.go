package store

import (
	"context"
	"fmt"

	"partner-portal/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

type TicketTypeStore struct {
	app core.App
}

func NewTicketTypeStore(app core.App) *TicketTypeStore {
	return &TicketTypeStore{app: app}
}

func (s *TicketTypeStore) ListByPartner(ctx context.Context, partnerID string) ([]models.TicketType, error) {
	records, err := findAll(ctx, s.app, CollectionTicketTypes, dbx.HashExp{"partner": partnerID}, "created DESC")
	if err != nil {
		return nil, err
	}

	types := make([]models.TicketType, 0, len(records))
	for _, record := range records {
		types = append(types, ticketTypeFromRecord(record))
	}
	return types, nil
}

func (s *TicketTypeStore) Create(ctx context.Context, partnerID string, form models.TicketTypeForm) (*models.TicketType, error) {
	record, err := newRecord(s.app, CollectionTicketTypes)
	if err != nil {
		return nil, err
	}
	record.Set("partner", partnerID)
	applyTicketTypeForm(record, form)

	return s.save(ctx, record)
}

func (s *TicketTypeStore) Update(ctx context.Context, partnerID, id string, form models.TicketTypeForm) (*models.TicketType, error) {
	record, err := findOne(ctx, s.app, CollectionTicketTypes, owned(id, partnerID))
	if err != nil {
		return nil, err
	}
	applyTicketTypeForm(record, form)

	return s.save(ctx, record)
}

// SetActive flips availability without touching the rest of the form.
func (s *TicketTypeStore) SetActive(ctx context.Context, partnerID, id string, active bool) (*models.TicketType, error) {
	record, err := findOne(ctx, s.app, CollectionTicketTypes, owned(id, partnerID))
	if err != nil {
		return nil, err
	}
	record.Set("is_active", active)

	return s.save(ctx, record)
}

func (s *TicketTypeStore) FindByID(ctx context.Context, partnerID, id string) (*models.TicketType, error) {
	record, err := findOne(ctx, s.app, CollectionTicketTypes, owned(id, partnerID))
	if err != nil {
		return nil, err
	}
	tt := ticketTypeFromRecord(record)
	return &tt, nil
}

func (s *TicketTypeStore) Delete(ctx context.Context, partnerID, id string) error {
	record, err := findOne(ctx, s.app, CollectionTicketTypes, owned(id, partnerID))
	if err != nil {
		return err
	}
	if err := s.app.DeleteWithContext(ctx, record); err != nil {
		return fmt.Errorf("s.app.DeleteWithContext(): %w", err)
	}
	return nil
}

func (s *TicketTypeStore) save(ctx context.Context, record *core.Record) (*models.TicketType, error) {
	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return nil, fmt.Errorf("s.app.SaveWithContext(): %w", err)
	}
	tt := ticketTypeFromRecord(record)
	return &tt, nil
}

func applyTicketTypeForm(record *core.Record, form models.TicketTypeForm) {
	record.Set("name", form.Name)
	record.Set("name_ar", form.NameAr)
	record.Set("description", form.Description)
	record.Set("description_ar", form.DescriptionAr)
	setDecimal(record, "price", form.Price)
	record.Set("validity_hours", form.ValidityHours)
	record.Set("max_quantity", form.MaxQuantity)
	record.Set("is_active", form.IsActive)
}

func ticketTypeFromRecord(record *core.Record) models.TicketType {
	return models.TicketType{
		ID:            record.Id,
		PartnerID:     record.GetString("partner"),
		Name:          record.GetString("name"),
		NameAr:        record.GetString("name_ar"),
		Description:   record.GetString("description"),
		DescriptionAr: record.GetString("description_ar"),
		Price:         getDecimal(record, "price"),
		ValidityHours: record.GetInt("validity_hours"),
		MaxQuantity:   record.GetInt("max_quantity"),
		IsActive:      record.GetBool("is_active"),
		CreatedAt:     getTime(record, "created"),
	}
}
