package store

import (
	"context"
	"fmt"

	"partner-portal/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

type ActivityStore struct {
	app core.App
}

func NewActivityStore(app core.App) *ActivityStore {
	return &ActivityStore{app: app}
}

func (s *ActivityStore) ListByPartner(ctx context.Context, partnerID string) ([]models.Activity, error) {
	records, err := findAll(ctx, s.app, CollectionActivities, dbx.HashExp{"partner": partnerID}, "created DESC")
	if err != nil {
		return nil, err
	}

	activities := make([]models.Activity, 0, len(records))
	for _, record := range records {
		activities = append(activities, activityFromRecord(record))
	}
	return activities, nil
}

func (s *ActivityStore) FindByID(ctx context.Context, partnerID, id string) (*models.Activity, error) {
	record, err := findOne(ctx, s.app, CollectionActivities, owned(id, partnerID))
	if err != nil {
		return nil, err
	}
	a := activityFromRecord(record)
	return &a, nil
}

// Create inserts a new listing awaiting approval.
func (s *ActivityStore) Create(ctx context.Context, partnerID string, form models.ActivityForm) (*models.Activity, error) {
	record, err := newRecord(s.app, CollectionActivities)
	if err != nil {
		return nil, err
	}
	record.Set("partner", partnerID)
	record.Set("status", string(models.ActivityPendingApproval))
	applyActivityForm(record, form)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return nil, fmt.Errorf("s.app.SaveWithContext(): %w", err)
	}
	a := activityFromRecord(record)
	return &a, nil
}

func (s *ActivityStore) Update(ctx context.Context, partnerID, id string, form models.ActivityForm) (*models.Activity, error) {
	record, err := findOne(ctx, s.app, CollectionActivities, owned(id, partnerID))
	if err != nil {
		return nil, err
	}
	applyActivityForm(record, form)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return nil, fmt.Errorf("s.app.SaveWithContext(): %w", err)
	}
	a := activityFromRecord(record)
	return &a, nil
}

func (s *ActivityStore) Delete(ctx context.Context, partnerID, id string) error {
	record, err := findOne(ctx, s.app, CollectionActivities, owned(id, partnerID))
	if err != nil {
		return err
	}
	if err := s.app.DeleteWithContext(ctx, record); err != nil {
		return fmt.Errorf("s.app.DeleteWithContext(): %w", err)
	}
	return nil
}

func applyActivityForm(record *core.Record, form models.ActivityForm) {
	record.Set("title", form.Title)
	record.Set("title_ar", form.TitleAr)
	record.Set("description", form.Description)
	record.Set("description_ar", form.DescriptionAr)
	record.Set("location", form.Location)
	record.Set("location_ar", form.LocationAr)
	setDecimal(record, "price", form.Price)
	record.Set("category", form.CategoryID)
	record.Set("image_url", form.ImageURL)
	record.Set("gallery_images", form.GalleryImages)
	record.Set("cash_payment_enabled", form.CashPaymentEnabled)
}

func activityFromRecord(record *core.Record) models.Activity {
	var gallery []string
	if err := record.UnmarshalJSONField("gallery_images", &gallery); err != nil || gallery == nil {
		gallery = []string{}
	}

	return models.Activity{
		ID:                 record.Id,
		PartnerID:          record.GetString("partner"),
		Title:              record.GetString("title"),
		TitleAr:            record.GetString("title_ar"),
		Description:        record.GetString("description"),
		DescriptionAr:      record.GetString("description_ar"),
		Location:           record.GetString("location"),
		LocationAr:         record.GetString("location_ar"),
		Price:              getDecimal(record, "price"),
		CategoryID:         record.GetString("category"),
		ImageURL:           record.GetString("image_url"),
		GalleryImages:      gallery,
		Status:             models.ActivityStatus(record.GetString("status")),
		CashPaymentEnabled: record.GetBool("cash_payment_enabled"),
		CreatedAt:          getTime(record, "created"),
		UpdatedAt:          getTime(record, "updated"),
	}
}

type CategoryStore struct {
	app core.App
}

func NewCategoryStore(app core.App) *CategoryStore {
	return &CategoryStore{app: app}
}

func (s *CategoryStore) ListActive(ctx context.Context) ([]models.Category, error) {
	records, err := findAll(ctx, s.app, CollectionCategories, dbx.HashExp{"is_active": true}, "name ASC")
	if err != nil {
		return nil, err
	}

	categories := make([]models.Category, 0, len(records))
	for _, record := range records {
		categories = append(categories, categoryFromRecord(record))
	}
	return categories, nil
}

func (s *CategoryStore) FindActive(ctx context.Context, id string) (*models.Category, error) {
	record, err := findOne(ctx, s.app, CollectionCategories, dbx.HashExp{"id": id, "is_active": true})
	if err != nil {
		return nil, err
	}
	c := categoryFromRecord(record)
	return &c, nil
}

func categoryFromRecord(record *core.Record) models.Category {
	return models.Category{
		ID:       record.Id,
		Name:     record.GetString("name"),
		NameAr:   record.GetString("name_ar"),
		IsActive: record.GetBool("is_active"),
	}
}
