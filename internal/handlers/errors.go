package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"partner-portal/internal/status"
	"partner-portal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

const sessionStoreKey = "partnerSession"

// apiError maps service errors to the portal's HTTP error taxonomy.
// Unknown errors are logged and hidden behind a generic 500.
func apiError(e *core.RequestEvent, err error) error {
	var fields validation.Errors
	switch {
	case errors.As(err, &fields):
		return apis.NewBadRequestError("Please correct the highlighted fields.", fields)

	case errors.Is(err, status.ErrInvalidLogin):
		return apis.NewUnauthorizedError("Invalid email or password.", nil)
	case errors.Is(err, status.ErrPartnerInactive):
		return apis.NewForbiddenError("Your account is inactive. Please contact support.", nil)
	case errors.Is(err, status.ErrPartnerUnverified):
		return apis.NewForbiddenError("Your account is not verified yet. Please contact support.", nil)
	case errors.Is(err, status.ErrPartnerNotFound), errors.Is(err, status.ErrSessionNotFound):
		return apis.NewUnauthorizedError("Please sign in to continue.", nil)

	case errors.Is(err, status.ErrTicketNotFound):
		return apis.NewNotFoundError("Ticket not found.", nil)
	case errors.Is(err, status.ErrTicketNotOwned):
		return apis.NewForbiddenError("This ticket does not belong to your business.", nil)
	case errors.Is(err, status.ErrTicketNotRedeemable):
		return apis.NewBadRequestError("Only active tickets can be marked as used.", nil)
	case errors.Is(err, status.ErrTicketExpired):
		return apis.NewBadRequestError("Ticket has expired.", nil)
	case errors.Is(err, status.ErrRedemptionConflict):
		return apis.NewApiError(http.StatusConflict, "Failed to update ticket status. Please try again.", nil)

	case errors.Is(err, status.ErrRecordNotFound):
		return apis.NewNotFoundError("The requested resource wasn't found.", nil)
	case errors.Is(err, status.ErrNotEditable):
		return apis.NewBadRequestError("Only activities pending approval can be edited.", nil)
	case errors.Is(err, status.ErrNoPendingBalance):
		return apis.NewBadRequestError("No pending balance to request payment for.", nil)
	case errors.Is(err, status.ErrUnsupportedImage):
		return apis.NewBadRequestError("Please upload a JPEG, PNG, GIF or WebP image.", nil)
	case errors.Is(err, status.ErrImageTooLarge):
		return apis.NewApiError(http.StatusRequestEntityTooLarge, "Image is too large.", nil)
	case errors.Is(err, status.ErrRateLimited):
		return apis.NewTooManyRequestsError("Too many requests. Please try again later.", nil)
	}

	slog.Error("request failed", "method", e.Request.Method, "path", e.Request.URL.Path, "error", err)
	return apis.NewInternalServerError("Something went wrong. Please try again.", nil)
}

// currentSession returns the session stored by RequireSession.
func currentSession(e *core.RequestEvent) (models.PartnerSession, error) {
	session, ok := e.Get(sessionStoreKey).(models.PartnerSession)
	if !ok {
		return models.PartnerSession{}, apis.NewUnauthorizedError("Please sign in to continue.", nil)
	}
	return session, nil
}

// clientIP honours the app's trusted proxy headers when an app is attached.
func clientIP(e *core.RequestEvent) string {
	if e.App == nil {
		return e.RemoteIP()
	}
	return e.RealIP()
}
