package store

import (
	"context"
	"errors"
	"fmt"

	"partner-portal/internal/status"
	"partner-portal/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

type PartnerStore struct {
	app core.App
}

func NewPartnerStore(app core.App) *PartnerStore {
	return &PartnerStore{app: app}
}

func (s *PartnerStore) FindByID(ctx context.Context, id string) (*models.Partner, error) {
	record, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return partnerFromRecord(record), nil
}

// Authenticate checks email and password, returning ErrInvalidLogin for either mismatch.
func (s *PartnerStore) Authenticate(ctx context.Context, email, password string) (*models.Partner, error) {
	record, err := s.app.FindAuthRecordByEmail(CollectionPartners, email)
	if err != nil {
		return nil, status.ErrInvalidLogin
	}
	if !record.ValidatePassword(password) {
		return nil, status.ErrInvalidLogin
	}
	return partnerFromRecord(record), nil
}

// IssueToken creates a PocketBase auth token for the partner.
func (s *PartnerStore) IssueToken(ctx context.Context, id string) (string, error) {
	record, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	token, err := record.NewAuthToken()
	if err != nil {
		return "", fmt.Errorf("record.NewAuthToken(): %w", err)
	}
	return token, nil
}

func (s *PartnerStore) UpdateProfile(ctx context.Context, id string, form models.ProfileForm) (*models.Partner, error) {
	record, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Set("name", form.Name)
	record.Set("name_ar", form.NameAr)
	record.Set("phone", form.Phone)
	record.Set("business_name", form.BusinessName)
	record.Set("business_name_ar", form.BusinessNameAr)
	record.Set("business_address", form.BusinessAddress)
	record.Set("business_address_ar", form.BusinessAddressAr)
	record.Set("commission_rate", form.CommissionRate)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return nil, fmt.Errorf("s.app.SaveWithContext(): %w", err)
	}
	return partnerFromRecord(record), nil
}

func (s *PartnerStore) SetPassword(ctx context.Context, id, password string) error {
	record, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	record.SetPassword(password)
	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("s.app.SaveWithContext(): %w", err)
	}
	return nil
}

func (s *PartnerStore) find(ctx context.Context, id string) (*core.Record, error) {
	record, err := findOne(ctx, s.app, CollectionPartners, dbx.HashExp{"id": id})
	if errors.Is(err, status.ErrRecordNotFound) {
		return nil, status.ErrPartnerNotFound
	}
	return record, err
}

func partnerFromRecord(record *core.Record) *models.Partner {
	return &models.Partner{
		ID:                record.Id,
		Email:             record.Email(),
		Name:              record.GetString("name"),
		NameAr:            record.GetString("name_ar"),
		Phone:             record.GetString("phone"),
		BusinessName:      record.GetString("business_name"),
		BusinessNameAr:    record.GetString("business_name_ar"),
		BusinessAddress:   record.GetString("business_address"),
		BusinessAddressAr: record.GetString("business_address_ar"),
		CommissionRate:    record.GetFloat("commission_rate"),
		IsActive:          record.GetBool("is_active"),
		IsVerified:        record.Verified(),
		UpdatedAt:         getTime(record, "updated"),
	}
}
