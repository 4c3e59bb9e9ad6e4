package services

import (
	"context"

	"partner-portal/internal/store"
	"partner-portal/models"
)

type TicketStore interface {
	FindByCode(ctx context.Context, code string) (*models.Ticket, error)
	FindByID(ctx context.Context, id string) (*models.Ticket, error)
	ListByBookings(ctx context.Context, partnerID string, bookingIDs []string) ([]models.Ticket, error)
	ListByPartner(ctx context.Context, partnerID string, r store.Range) ([]models.Ticket, error)
	Redeem(ctx context.Context, r models.Redemption, log models.ScanLog) error
}

type PartnerStore interface {
	FindByID(ctx context.Context, id string) (*models.Partner, error)
	Authenticate(ctx context.Context, email, password string) (*models.Partner, error)
	IssueToken(ctx context.Context, id string) (string, error)
	UpdateProfile(ctx context.Context, id string, form models.ProfileForm) (*models.Partner, error)
	SetPassword(ctx context.Context, id, password string) error
}

type BookingStore interface {
	ListByPartner(ctx context.Context, partnerID string, r store.Range) ([]models.Booking, error)
	FindByID(ctx context.Context, partnerID, id string) (*models.Booking, error)
}

type ActivityStore interface {
	ListByPartner(ctx context.Context, partnerID string) ([]models.Activity, error)
	FindByID(ctx context.Context, partnerID, id string) (*models.Activity, error)
	Create(ctx context.Context, partnerID string, form models.ActivityForm) (*models.Activity, error)
	Update(ctx context.Context, partnerID, id string, form models.ActivityForm) (*models.Activity, error)
	Delete(ctx context.Context, partnerID, id string) error
}

type CategoryStore interface {
	ListActive(ctx context.Context) ([]models.Category, error)
	FindActive(ctx context.Context, id string) (*models.Category, error)
}

type TicketTypeStore interface {
	ListByPartner(ctx context.Context, partnerID string) ([]models.TicketType, error)
	FindByID(ctx context.Context, partnerID, id string) (*models.TicketType, error)
	Create(ctx context.Context, partnerID string, form models.TicketTypeForm) (*models.TicketType, error)
	Update(ctx context.Context, partnerID, id string, form models.TicketTypeForm) (*models.TicketType, error)
	SetActive(ctx context.Context, partnerID, id string, active bool) (*models.TicketType, error)
	Delete(ctx context.Context, partnerID, id string) error
}

type PaymentStore interface {
	ListByPartner(ctx context.Context, partnerID string) ([]models.Payment, error)
	RequestPayout(ctx context.Context, p models.Payment, n models.Notification) (*models.Payment, error)
}

type NotificationStore interface {
	List(ctx context.Context, partnerID string, filter models.NotificationFilter) ([]models.Notification, error)
	MarkRead(ctx context.Context, partnerID, id string) error
	MarkAllRead(ctx context.Context, partnerID string) (int64, error)
	Delete(ctx context.Context, partnerID, id string) error
}

type ClickStore interface {
	ListByPartner(ctx context.Context, partnerID string, r store.Range) ([]models.ClickLog, error)
}

type ImageStore interface {
	Put(ctx context.Context, key string, content []byte) error
}
