package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

type TicketStatus string

const (
	TicketValid     TicketStatus = "valid"
	TicketUsed      TicketStatus = "used"
	TicketCancelled TicketStatus = "cancelled"
	TicketExpired   TicketStatus = "expired"
)

var TicketStatuses = []TicketStatus{TicketValid, TicketUsed, TicketCancelled, TicketExpired}

// Label is the human readable status used in reports.
func (s TicketStatus) Label() string {
	switch s {
	case TicketValid:
		return "Active"
	case TicketUsed:
		return "Used"
	case TicketCancelled:
		return "Cancelled"
	case TicketExpired:
		return "Expired"
	}
	return string(s)
}

// auditSeparator joins auditor name and note in the stored audit text.
const auditSeparator = " — "

type Ticket struct {
	ID               string           `json:"id"`
	Code             string           `json:"code"`
	PartnerID        string           `json:"partner_id"`
	BookingID        string           `json:"booking_id"`
	ActivityID       string           `json:"activity_id,omitempty"`
	TicketTypeID     string           `json:"ticket_type_id,omitempty"`
	Name             string           `json:"ticket_name"`
	UnitPrice        decimal.Decimal  `json:"unit_price"`
	ServiceFee       decimal.Decimal  `json:"service_fee"`
	TotalPrice       decimal.Decimal  `json:"total_price"`
	CommissionAmount decimal.Decimal  `json:"commission_amount"`
	Status           TicketStatus     `json:"status"`
	ValidUntil       time.Time        `json:"valid_until"`
	ActivatedBy      string           `json:"activated_by,omitempty"`
	ActivatedAt      *time.Time       `json:"activated_at,omitempty"`
	RedeemedBy       string           `json:"redeemed_by,omitempty"`
	RedeemNote       string           `json:"redeem_note,omitempty"`
	CollectedAmount  *decimal.Decimal `json:"collected_amount,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Validate checks the invariants a ticket row must satisfy to be usable.
func (t Ticket) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.ID, validation.Required),
		validation.Field(&t.PartnerID, validation.Required),
		validation.Field(&t.Status, validation.Required, validation.In(
			TicketValid, TicketUsed, TicketCancelled, TicketExpired,
		)),
		validation.Field(&t.TotalPrice, validation.By(decimalAtLeast(decimal.Zero, "price must not be negative"))),
	)
}

// Price is the amount charged for the ticket: total price when set, unit price otherwise.
func (t *Ticket) Price() decimal.Decimal {
	if !t.TotalPrice.IsZero() {
		return t.TotalPrice
	}
	return t.UnitPrice
}

// PastDeadline reports whether the validity deadline is before now.
// A ticket without a deadline never expires by time.
func (t *Ticket) PastDeadline(now time.Time) bool {
	return !t.ValidUntil.IsZero() && now.After(t.ValidUntil)
}

// LastAction returns the most recent redemption audit, or nil when never redeemed.
func (t *Ticket) LastAction() *AuditAction {
	if t.ActivatedAt == nil {
		return nil
	}
	name, note := ParseAuditText(t.ActivatedBy)
	return &AuditAction{ActorName: name, Note: note, When: *t.ActivatedAt}
}

type AuditAction struct {
	ActorName string    `json:"actor_name"`
	Note      string    `json:"note"`
	When      time.Time `json:"when"`
}

// AuditText composes the stored audit string from auditor name and note.
func AuditText(auditor, note string) string {
	return strings.TrimSpace(auditor) + auditSeparator + strings.TrimSpace(note)
}

// ParseAuditText splits an audit string back into auditor name and note.
// Text without the separator is treated as a bare name.
func ParseAuditText(text string) (string, string) {
	if text == "" {
		return "", ""
	}
	name, note, found := strings.Cut(text, auditSeparator)
	if !found {
		return text, ""
	}
	return name, note
}

type ValidationReason string

const (
	ReasonOK        ValidationReason = "ok"
	ReasonNotFound  ValidationReason = "not_found"
	ReasonNotOwned  ValidationReason = "not_owned"
	ReasonUsed      ValidationReason = "used"
	ReasonExpired   ValidationReason = "expired"
	ReasonCancelled ValidationReason = "cancelled"
	ReasonError     ValidationReason = "error"
)

// ValidationResult is the verdict of a ticket scan.
type ValidationResult struct {
	Valid   bool             `json:"valid"`
	Reason  ValidationReason `json:"reason"`
	Message string           `json:"message"`
	Ticket  *Ticket          `json:"ticket"`
}

// RedemptionRequest is what the scanning operator submits to mark a ticket used.
type RedemptionRequest struct {
	AuditorName     string           `json:"auditor_name"`
	Note            string           `json:"note"`
	CollectedAmount *decimal.Decimal `json:"collected_amount"`
}

func (r *RedemptionRequest) Normalize() {
	r.AuditorName = strings.TrimSpace(r.AuditorName)
	r.Note = strings.TrimSpace(r.Note)
}

// Validate checks the request; the collected amount is only required for cash bookings.
func (r RedemptionRequest) Validate(cash bool) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AuditorName, validation.Required.Error("Please enter your name.")),
		validation.Field(&r.Note, validation.Required.Error("Please add a note.")),
		validation.Field(&r.CollectedAmount,
			validation.When(cash,
				validation.NotNil.Error("Enter a valid Cash Collected amount."),
				validation.By(decimalPtrAtLeast(decimal.Zero, "Enter a valid Cash Collected amount.")),
			),
		),
	)
}

// Redemption is the write applied to a ticket going from valid to used.
type Redemption struct {
	TicketID        string
	PartnerID       string
	AuditorName     string
	Note            string
	At              time.Time
	CollectedAmount *decimal.Decimal
}

func (r Redemption) AuditText() string {
	return AuditText(r.AuditorName, r.Note)
}
