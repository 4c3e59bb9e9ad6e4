package services

import (
	"context"
	"fmt"

	"partner-portal/internal/status"
	"partner-portal/internal/store"
	"partner-portal/models"

	"github.com/shopspring/decimal"
)

const payoutNote = "Payment request from partner portal"

type PaymentService struct {
	payments PaymentStore
	tickets  TicketStore
}

func NewPaymentService(payments PaymentStore, tickets TicketStore) *PaymentService {
	return &PaymentService{payments: payments, tickets: tickets}
}

type PaymentOverview struct {
	Payments []models.Payment    `json:"payments"`
	Stats    models.PaymentStats `json:"stats"`
}

// Overview lists payouts newest first along with the earned, paid and pending totals.
func (s *PaymentService) Overview(ctx context.Context, session models.PartnerSession) (*PaymentOverview, error) {
	payments, err := s.payments.ListByPartner(ctx, session.PartnerID)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListByPartner(ctx, session.PartnerID, store.Range{})
	if err != nil {
		return nil, err
	}
	return &PaymentOverview{Payments: payments, Stats: PaymentStats(tickets, payments)}, nil
}

// PaymentStats sums ticket prices as earned and paid payouts as paid. payments
// must be newest first for LastPayment to be the latest paid one.
func PaymentStats(tickets []models.Ticket, payments []models.Payment) models.PaymentStats {
	var stats models.PaymentStats
	for i := range tickets {
		stats.TotalEarned = stats.TotalEarned.Add(tickets[i].Price())
	}
	for i := range payments {
		p := payments[i]
		if p.Status != models.PaymentPaid {
			continue
		}
		stats.TotalPaid = stats.TotalPaid.Add(p.Amount)
		if stats.LastPayment == nil {
			stats.LastPayment = &p
		}
	}
	stats.PendingBalance = stats.TotalEarned.Sub(stats.TotalPaid)
	return stats
}

// Request asks for the whole pending balance to be paid out.
func (s *PaymentService) Request(ctx context.Context, session models.PartnerSession) (*models.Payment, error) {
	overview, err := s.Overview(ctx, session)
	if err != nil {
		return nil, err
	}

	balance := overview.Stats.PendingBalance
	if !balance.GreaterThan(decimal.Zero) {
		return nil, status.ErrNoPendingBalance
	}

	payment := models.Payment{
		PartnerID:   session.PartnerID,
		Amount:      balance,
		PaymentType: models.PaymentTypeCommission,
		Status:      models.PaymentPending,
		Notes:       payoutNote,
	}
	notification := models.Notification{
		PartnerID:   session.PartnerID,
		Title:       "Payment Request Submitted",
		TitleAr:     "تم تقديم طلب الدفع",
		Message:     fmt.Sprintf("Payment request for %s JOD has been submitted", balance.StringFixed(2)),
		MessageAr:   fmt.Sprintf("تم تقديم طلب دفع بقيمة %s دينار أردني", balance.StringFixed(2)),
		Type:        models.NotificationInfo,
		RelatedType: "payment",
	}

	return s.payments.RequestPayout(ctx, payment, notification)
}

// List returns the payouts for export.
func (s *PaymentService) List(ctx context.Context, session models.PartnerSession) ([]models.Payment, error) {
	return s.payments.ListByPartner(ctx, session.PartnerID)
}
