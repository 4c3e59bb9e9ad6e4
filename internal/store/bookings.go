package store

import (
	"context"

	"partner-portal/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

type BookingStore struct {
	app core.App
}

func NewBookingStore(app core.App) *BookingStore {
	return &BookingStore{app: app}
}

// ListByPartner returns bookings of the partner made within r, newest first.
func (s *BookingStore) ListByPartner(ctx context.Context, partnerID string, r Range) ([]models.Booking, error) {
	records, err := findAll(ctx, s.app, CollectionBookings,
		dbx.And(dbx.HashExp{"partner": partnerID}, r.expression("created")),
		"created DESC",
	)
	if err != nil {
		return nil, err
	}

	bookings := make([]models.Booking, 0, len(records))
	for _, record := range records {
		bookings = append(bookings, bookingFromRecord(record))
	}
	return bookings, nil
}

func (s *BookingStore) FindByID(ctx context.Context, partnerID, id string) (*models.Booking, error) {
	record, err := findOne(ctx, s.app, CollectionBookings, owned(id, partnerID))
	if err != nil {
		return nil, err
	}
	b := bookingFromRecord(record)
	return &b, nil
}

func bookingFromRecord(record *core.Record) models.Booking {
	return models.Booking{
		ID:             record.Id,
		PartnerID:      record.GetString("partner"),
		ActivityID:     record.GetString("activity"),
		ShortBookingID: record.GetString("short_booking_id"),
		PaymentMethod:  record.GetString("payment_method"),
		CustomerName:   record.GetString("customer_name"),
		CustomerEmail:  record.GetString("customer_email"),
		CustomerPhone:  record.GetString("customer_phone"),
		TotalAmount:    getDecimal(record, "total_amount"),
		CreatedAt:      getTime(record, "created"),
	}
}
