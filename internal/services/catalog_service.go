package services

import (
	"context"
	"errors"

	"partner-portal/internal/status"
	"partner-portal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type ActivityService struct {
	activities ActivityStore
	categories CategoryStore
}

func NewActivityService(activities ActivityStore, categories CategoryStore) *ActivityService {
	return &ActivityService{activities: activities, categories: categories}
}

func (s *ActivityService) List(ctx context.Context, session models.PartnerSession) ([]models.Activity, error) {
	return s.activities.ListByPartner(ctx, session.PartnerID)
}

func (s *ActivityService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categories.ListActive(ctx)
}

// Create submits a listing for approval.
func (s *ActivityService) Create(ctx context.Context, session models.PartnerSession, form models.ActivityForm) (*models.Activity, error) {
	if err := s.check(ctx, &form); err != nil {
		return nil, err
	}
	return s.activities.Create(ctx, session.PartnerID, form)
}

// Update edits a listing still awaiting approval.
func (s *ActivityService) Update(ctx context.Context, session models.PartnerSession, id string, form models.ActivityForm) (*models.Activity, error) {
	current, err := s.activities.FindByID(ctx, session.PartnerID, id)
	if err != nil {
		return nil, err
	}
	if current.Status != models.ActivityPendingApproval {
		return nil, status.ErrNotEditable
	}
	if err := s.check(ctx, &form); err != nil {
		return nil, err
	}
	return s.activities.Update(ctx, session.PartnerID, id, form)
}

func (s *ActivityService) Delete(ctx context.Context, session models.PartnerSession, id string) error {
	return s.activities.Delete(ctx, session.PartnerID, id)
}

func (s *ActivityService) check(ctx context.Context, form *models.ActivityForm) error {
	form.Normalize()
	if form.GalleryImages == nil {
		form.GalleryImages = []string{}
	}
	if err := form.Validate(); err != nil {
		return err
	}

	if _, err := s.categories.FindActive(ctx, form.CategoryID); err != nil {
		if errors.Is(err, status.ErrRecordNotFound) {
			return validation.Errors{"category_id": validation.NewError("validation_category_unavailable", "Category is not available")}
		}
		return err
	}
	return nil
}

type TicketTypeService struct {
	types TicketTypeStore
}

func NewTicketTypeService(types TicketTypeStore) *TicketTypeService {
	return &TicketTypeService{types: types}
}

func (s *TicketTypeService) List(ctx context.Context, session models.PartnerSession) ([]models.TicketType, error) {
	return s.types.ListByPartner(ctx, session.PartnerID)
}

func (s *TicketTypeService) Create(ctx context.Context, session models.PartnerSession, form models.TicketTypeForm) (*models.TicketType, error) {
	form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return s.types.Create(ctx, session.PartnerID, form)
}

func (s *TicketTypeService) Update(ctx context.Context, session models.PartnerSession, id string, form models.TicketTypeForm) (*models.TicketType, error) {
	form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return s.types.Update(ctx, session.PartnerID, id, form)
}

// Toggle flips the active flag of the ticket type.
func (s *TicketTypeService) Toggle(ctx context.Context, session models.PartnerSession, id string) (*models.TicketType, error) {
	current, err := s.types.FindByID(ctx, session.PartnerID, id)
	if err != nil {
		return nil, err
	}
	return s.types.SetActive(ctx, session.PartnerID, id, !current.IsActive)
}

func (s *TicketTypeService) Delete(ctx context.Context, session models.PartnerSession, id string) error {
	return s.types.Delete(ctx, session.PartnerID, id)
}

type ProfileService struct {
	partners PartnerStore
	sessions *SessionService
}

func NewProfileService(partners PartnerStore, sessions *SessionService) *ProfileService {
	return &ProfileService{partners: partners, sessions: sessions}
}

func (s *ProfileService) Get(ctx context.Context, session models.PartnerSession) (*models.Partner, error) {
	return s.partners.FindByID(ctx, session.PartnerID)
}

// Update saves the profile and refreshes the cached session so names shown on
// the next request match.
func (s *ProfileService) Update(ctx context.Context, session models.PartnerSession, form models.ProfileForm) (*models.Partner, error) {
	form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}

	partner, err := s.partners.UpdateProfile(ctx, session.PartnerID, form)
	if err != nil {
		return nil, err
	}
	s.sessions.Refresh(ctx, partner)
	return partner, nil
}

func (s *ProfileService) ChangePassword(ctx context.Context, session models.PartnerSession, form models.PasswordForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	return s.partners.SetPassword(ctx, session.PartnerID, form.Password)
}

// IsValidationError reports whether err carries field keyed validation messages.
func IsValidationError(err error) bool {
	var errs validation.Errors
	return errors.As(err, &errs)
}
