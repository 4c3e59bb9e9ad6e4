package services

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"partner-portal/internal/status"
	"partner-portal/models"
	"partner-portal/monitoring"
	"partner-portal/utils"
)

// ClientInfo is the request metadata recorded with a redemption.
type ClientInfo struct {
	UserAgent string
	IP        string
}

type TicketService struct {
	tickets     TicketStore
	bookings    BookingStore
	cash        *regexp.Regexp
	fingerprint *utils.Fingerprinter
	now         func() time.Time
}

func NewTicketService(tickets TicketStore, bookings BookingStore, cash *regexp.Regexp, fingerprint *utils.Fingerprinter) *TicketService {
	return &TicketService{
		tickets:     tickets,
		bookings:    bookings,
		cash:        cash,
		fingerprint: fingerprint,
		now:         time.Now,
	}
}

// Validate reports whether the ticket behind code can be redeemed by the partner.
// It never writes and never fails: lookup errors become an "error" verdict.
func (s *TicketService) Validate(ctx context.Context, session models.PartnerSession, code string) models.ValidationResult {
	result := s.validate(ctx, session, strings.TrimSpace(code))
	monitoring.TrackValidation(string(result.Reason))
	return result
}

func (s *TicketService) validate(ctx context.Context, session models.PartnerSession, code string) models.ValidationResult {
	if code == "" {
		return invalid(models.ReasonNotFound, "Invalid ticket code", nil)
	}

	ticket, err := s.tickets.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, status.ErrTicketNotFound) {
			return invalid(models.ReasonNotFound, "Invalid ticket code", nil)
		}
		slog.Error("s.tickets.FindByCode()", "partner_id", session.PartnerID, "error", err)
		return invalid(models.ReasonError, "Error validating ticket", nil)
	}

	if ticket.PartnerID != session.PartnerID {
		return invalid(models.ReasonNotOwned, "This ticket does not belong to your business", nil)
	}

	switch ticket.Status {
	case models.TicketUsed:
		return invalid(models.ReasonUsed, "Ticket has already been used", ticket)
	case models.TicketExpired:
		return invalid(models.ReasonExpired, "Ticket has expired", ticket)
	case models.TicketCancelled:
		return invalid(models.ReasonCancelled, "Ticket has been cancelled", ticket)
	}

	if ticket.PastDeadline(s.now()) {
		return invalid(models.ReasonExpired, "Ticket has expired", ticket)
	}

	return models.ValidationResult{
		Valid:   true,
		Reason:  models.ReasonOK,
		Message: "Ticket is valid",
		Ticket:  ticket,
	}
}

func invalid(reason models.ValidationReason, message string, ticket *models.Ticket) models.ValidationResult {
	return models.ValidationResult{Reason: reason, Message: message, Ticket: ticket}
}

// Redeem marks the ticket used on behalf of the partner. The ticket is re-read
// right before the write and the write itself only applies to a still valid ticket.
func (s *TicketService) Redeem(ctx context.Context, session models.PartnerSession, ticketID string, req models.RedemptionRequest, client ClientInfo) (*models.Ticket, error) {
	start := s.now()
	ticket, err := s.redeem(ctx, session, ticketID, req, client)
	monitoring.TrackRedemption(redemptionResult(err), time.Since(start))
	return ticket, err
}

func (s *TicketService) redeem(ctx context.Context, session models.PartnerSession, ticketID string, req models.RedemptionRequest, client ClientInfo) (*models.Ticket, error) {
	req.Normalize()

	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.PartnerID != session.PartnerID {
		return nil, status.ErrTicketNotOwned
	}
	if ticket.Status != models.TicketValid {
		return nil, status.ErrTicketNotRedeemable
	}

	now := s.now()
	if ticket.PastDeadline(now) {
		return nil, status.ErrTicketExpired
	}

	cash, err := s.isCash(ctx, session.PartnerID, ticket.BookingID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(cash); err != nil {
		return nil, err
	}

	redemption := models.Redemption{
		TicketID:    ticket.ID,
		PartnerID:   session.PartnerID,
		AuditorName: req.AuditorName,
		Note:        req.Note,
		At:          now,
	}
	if cash {
		redemption.CollectedAmount = req.CollectedAmount
	}

	log := models.ScanLog{
		PartnerID:  session.PartnerID,
		TicketID:   ticket.ID,
		ScannedBy:  req.AuditorName,
		Note:       req.Note,
		Result:     models.ScanResultRedeemed,
		Location:   models.ScanLocationQR,
		DeviceInfo: client.UserAgent,
		IPHash:     s.fingerprint.Sum(client.IP),
	}

	if err := s.tickets.Redeem(ctx, redemption, log); err != nil {
		if !errors.Is(err, status.ErrRedemptionConflict) {
			slog.Error("s.tickets.Redeem()", "ticket_id", ticket.ID, "partner_id", session.PartnerID, "error", err)
		}
		return nil, err
	}

	ticket.Status = models.TicketUsed
	ticket.ActivatedBy = redemption.AuditText()
	ticket.ActivatedAt = &now
	ticket.RedeemedBy = redemption.AuditorName
	ticket.RedeemNote = redemption.Note
	ticket.CollectedAmount = redemption.CollectedAmount
	return ticket, nil
}

// isCash reports whether the booking was paid at the venue. A ticket whose
// booking is gone is treated as prepaid.
func (s *TicketService) isCash(ctx context.Context, partnerID, bookingID string) (bool, error) {
	if bookingID == "" {
		return false, nil
	}
	booking, err := s.bookings.FindByID(ctx, partnerID, bookingID)
	if err != nil {
		if errors.Is(err, status.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return booking.IsCash(s.cash), nil
}

func redemptionResult(err error) string {
	switch {
	case err == nil:
		return "redeemed"
	case errors.Is(err, status.ErrRedemptionConflict):
		return "conflict"
	case errors.Is(err, status.ErrTicketNotFound),
		errors.Is(err, status.ErrTicketNotOwned),
		errors.Is(err, status.ErrTicketNotRedeemable),
		errors.Is(err, status.ErrTicketExpired):
		return "rejected"
	case IsValidationError(err):
		return "invalid"
	}
	return "error"
}
