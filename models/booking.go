package models

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// Booking groups tickets bought together. Read only from the portal.
type Booking struct {
	ID             string          `json:"id"`
	PartnerID      string          `json:"partner_id"`
	ActivityID     string          `json:"activity_id"`
	ShortBookingID string          `json:"short_booking_id"`
	PaymentMethod  string          `json:"payment_method"`
	CustomerName   string          `json:"customer_name"`
	CustomerEmail  string          `json:"customer_email"`
	CustomerPhone  string          `json:"customer_phone"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CreatedAt      time.Time       `json:"created_at"`
}

// IsCash reports whether the booking was paid in cash at the venue.
func (b *Booking) IsCash(pattern *regexp.Regexp) bool {
	return b != nil && pattern != nil && pattern.MatchString(b.PaymentMethod)
}
