package store

import (
	"context"
	"errors"
	"fmt"

	"partner-portal/internal/status"
	"partner-portal/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

type TicketStore struct {
	app core.App
}

func NewTicketStore(app core.App) *TicketStore {
	return &TicketStore{app: app}
}

func (s *TicketStore) FindByCode(ctx context.Context, code string) (*models.Ticket, error) {
	record, err := findOne(ctx, s.app, CollectionTickets, dbx.HashExp{"code": code})
	if err != nil {
		if errors.Is(err, status.ErrRecordNotFound) {
			return nil, status.ErrTicketNotFound
		}
		return nil, err
	}
	return ticketFromRecord(record)
}

func (s *TicketStore) FindByID(ctx context.Context, id string) (*models.Ticket, error) {
	record, err := findOne(ctx, s.app, CollectionTickets, dbx.HashExp{"id": id})
	if err != nil {
		if errors.Is(err, status.ErrRecordNotFound) {
			return nil, status.ErrTicketNotFound
		}
		return nil, err
	}
	return ticketFromRecord(record)
}

// ListByBookings returns the partner's tickets belonging to any of bookingIDs.
func (s *TicketStore) ListByBookings(ctx context.Context, partnerID string, bookingIDs []string) ([]models.Ticket, error) {
	if len(bookingIDs) == 0 {
		return []models.Ticket{}, nil
	}
	ids := make([]any, len(bookingIDs))
	for i, id := range bookingIDs {
		ids[i] = id
	}

	records, err := findAll(ctx, s.app, CollectionTickets,
		dbx.And(dbx.HashExp{"partner": partnerID}, dbx.In("booking", ids...)),
		"created DESC",
	)
	if err != nil {
		return nil, err
	}
	return ticketsFromRecords(records)
}

// ListByPartner returns the partner's tickets created within r, newest first.
func (s *TicketStore) ListByPartner(ctx context.Context, partnerID string, r Range) ([]models.Ticket, error) {
	records, err := findAll(ctx, s.app, CollectionTickets,
		dbx.And(dbx.HashExp{"partner": partnerID}, r.expression("created")),
		"created DESC",
	)
	if err != nil {
		return nil, err
	}
	return ticketsFromRecords(records)
}

// Redeem moves a ticket from valid to used and appends the scan log in one transaction.
// The update only matches a ticket still valid and owned by the partner, so of two
// concurrent redemptions exactly one succeeds; the other gets ErrRedemptionConflict.
func (s *TicketStore) Redeem(ctx context.Context, r models.Redemption, log models.ScanLog) error {
	cols := dbx.Params{
		"status":       string(models.TicketUsed),
		"activated_by": r.AuditText(),
		"activated_at": formatDate(r.At),
		"redeemed_by":  r.AuditorName,
		"redeem_note":  r.Note,
		"updated":      formatDate(r.At),
	}
	if r.CollectedAmount != nil {
		cols["collected_amount"] = r.CollectedAmount.StringFixed(2)
	}

	return s.app.RunInTransaction(func(txApp core.App) error {
		result, err := txApp.DB().Update(CollectionTickets, cols, dbx.HashExp{
			"id":      r.TicketID,
			"partner": r.PartnerID,
			"status":  string(models.TicketValid),
		}).WithContext(ctx).Execute()
		if err != nil {
			return fmt.Errorf("txApp.DB().Update(): %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("result.RowsAffected(): %w", err)
		}
		if affected == 0 {
			return status.ErrRedemptionConflict
		}

		record, err := newRecord(txApp, CollectionScanLogs)
		if err != nil {
			return err
		}
		record.Set("partner", log.PartnerID)
		record.Set("ticket", log.TicketID)
		record.Set("scanned_by", log.ScannedBy)
		record.Set("note", log.Note)
		record.Set("scan_result", log.Result)
		record.Set("scan_location", log.Location)
		record.Set("device_info", log.DeviceInfo)
		record.Set("ip_hash", log.IPHash)

		if err := txApp.SaveWithContext(ctx, record); err != nil {
			return fmt.Errorf("txApp.SaveWithContext(scan log): %w", err)
		}
		return nil
	})
}

func ticketsFromRecords(records []*core.Record) ([]models.Ticket, error) {
	tickets := make([]models.Ticket, 0, len(records))
	for _, record := range records {
		t, err := ticketFromRecord(record)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, nil
}

func ticketFromRecord(record *core.Record) (*models.Ticket, error) {
	t := &models.Ticket{
		ID:               record.Id,
		Code:             record.GetString("code"),
		PartnerID:        record.GetString("partner"),
		BookingID:        record.GetString("booking"),
		ActivityID:       record.GetString("activity"),
		TicketTypeID:     record.GetString("ticket_type"),
		Name:             record.GetString("ticket_name"),
		UnitPrice:        getDecimal(record, "unit_price"),
		ServiceFee:       getDecimal(record, "service_fee"),
		TotalPrice:       getDecimal(record, "total_price"),
		CommissionAmount: getDecimal(record, "commission_amount"),
		Status:           models.TicketStatus(record.GetString("status")),
		ValidUntil:       getTime(record, "valid_until"),
		ActivatedBy:      record.GetString("activated_by"),
		ActivatedAt:      getTimePtr(record, "activated_at"),
		RedeemedBy:       record.GetString("redeemed_by"),
		RedeemNote:       record.GetString("redeem_note"),
		CreatedAt:        getTime(record, "created"),
	}
	if t.Status == "" {
		t.Status = models.TicketValid
	}
	if raw := record.GetString("collected_amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("ticket %s: collected_amount %q: %w", record.Id, raw, err)
		}
		t.CollectedAmount = &amount
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("ticket %s: %w", record.Id, err)
	}
	return t, nil
}
