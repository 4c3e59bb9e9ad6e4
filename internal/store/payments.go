package store

import (
	"context"
	"fmt"

	"partner-portal/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

type PaymentStore struct {
	app core.App
}

func NewPaymentStore(app core.App) *PaymentStore {
	return &PaymentStore{app: app}
}

func (s *PaymentStore) ListByPartner(ctx context.Context, partnerID string) ([]models.Payment, error) {
	records, err := findAll(ctx, s.app, CollectionPayments, dbx.HashExp{"partner": partnerID}, "created DESC")
	if err != nil {
		return nil, err
	}

	payments := make([]models.Payment, 0, len(records))
	for _, record := range records {
		payments = append(payments, paymentFromRecord(record))
	}
	return payments, nil
}

// RequestPayout records the pending payout together with the partner's notification.
func (s *PaymentStore) RequestPayout(ctx context.Context, p models.Payment, n models.Notification) (*models.Payment, error) {
	var created models.Payment

	err := s.app.RunInTransaction(func(txApp core.App) error {
		record, err := newRecord(txApp, CollectionPayments)
		if err != nil {
			return err
		}
		record.Set("partner", p.PartnerID)
		setDecimal(record, "amount", p.Amount)
		record.Set("payment_type", string(p.PaymentType))
		record.Set("status", string(p.Status))
		record.Set("reference_number", p.Reference)
		record.Set("notes", p.Notes)
		if err := txApp.SaveWithContext(ctx, record); err != nil {
			return fmt.Errorf("txApp.SaveWithContext(payment): %w", err)
		}
		created = paymentFromRecord(record)

		n.RelatedID = record.Id
		notification, err := notificationRecord(txApp, n)
		if err != nil {
			return err
		}
		if err := txApp.SaveWithContext(ctx, notification); err != nil {
			return fmt.Errorf("txApp.SaveWithContext(notification): %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func paymentFromRecord(record *core.Record) models.Payment {
	return models.Payment{
		ID:          record.Id,
		PartnerID:   record.GetString("partner"),
		Amount:      getDecimal(record, "amount"),
		PaymentType: models.PaymentType(record.GetString("payment_type")),
		Status:      models.PaymentStatus(record.GetString("status")),
		Reference:   record.GetString("reference_number"),
		Notes:       record.GetString("notes"),
		PaidAt:      getTimePtr(record, "paid_at"),
		CreatedAt:   getTime(record, "created"),
	}
}
