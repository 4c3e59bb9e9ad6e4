package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type PaymentType string

const (
	PaymentTypeCommission PaymentType = "commission"
	PaymentTypeBonus      PaymentType = "bonus"
	PaymentTypeRefund     PaymentType = "refund"
)

// Payment is a partner payout. Requested from the portal, resolved by the back office.
type Payment struct {
	ID          string          `json:"id"`
	PartnerID   string          `json:"partner_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentType PaymentType     `json:"payment_type"`
	Status      PaymentStatus   `json:"status"`
	Reference   string          `json:"reference_number"`
	Notes       string          `json:"notes"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type PaymentStats struct {
	TotalEarned    decimal.Decimal `json:"total_earned"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	PendingBalance decimal.Decimal `json:"pending_balance"`
	LastPayment    *Payment        `json:"last_payment"`
}
