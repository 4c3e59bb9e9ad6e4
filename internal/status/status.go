package status

import "errors"

var (
	ErrTicketNotFound      = errors.New("ticket: ticket not found")
	ErrTicketNotOwned      = errors.New("ticket: ticket does not belong to partner")
	ErrTicketNotRedeemable = errors.New("ticket: only active tickets can be marked as used")
	ErrTicketExpired       = errors.New("ticket: ticket has expired")
	ErrRedemptionConflict  = errors.New("ticket: ticket was redeemed by another device")

	ErrPartnerNotFound   = errors.New("partner: partner account not found")
	ErrPartnerInactive   = errors.New("partner: account is inactive")
	ErrPartnerUnverified = errors.New("partner: account is not verified")
	ErrInvalidLogin      = errors.New("partner: invalid email or password")
	ErrSessionNotFound   = errors.New("session: session not found")

	ErrRecordNotFound = errors.New("record: record not found")
	ErrNotEditable    = errors.New("record: record can no longer be edited")

	ErrNoPendingBalance = errors.New("payment: no pending balance to request payment for")

	ErrUnsupportedImage = errors.New("upload: unsupported image type")
	ErrImageTooLarge    = errors.New("upload: image exceeds size limit")

	ErrRateLimited = errors.New("rate limit: too many requests")
)
