package models

import "time"

const (
	ScanResultRedeemed = "redeemed"
	ScanLocationQR     = "QR Scanner"
)

// ScanLog is an append-only audit row written on every redemption.
type ScanLog struct {
	ID         string    `json:"id"`
	PartnerID  string    `json:"partner_id"`
	TicketID   string    `json:"ticket_id"`
	ScannedBy  string    `json:"scanned_by"`
	Note       string    `json:"note"`
	Result     string    `json:"scan_result"`
	Location   string    `json:"scan_location"`
	DeviceInfo string    `json:"device_info"`
	IPHash     string    `json:"ip_hash"`
	CreatedAt  time.Time `json:"created_at"`
}

// ClickLog records a customer opening an activity listing.
type ClickLog struct {
	ID         string    `json:"id"`
	PartnerID  string    `json:"partner_id"`
	ActivityID string    `json:"activity_id"`
	ClickedAt  time.Time `json:"clicked_at"`
}
