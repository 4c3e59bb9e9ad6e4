package handlers

import (
	"context"
	"net/http"

	"partner-portal/internal/services"
	"partner-portal/models"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type TicketScanner interface {
	Validate(ctx context.Context, session models.PartnerSession, code string) models.ValidationResult
	Redeem(ctx context.Context, session models.PartnerSession, ticketID string, req models.RedemptionRequest, client services.ClientInfo) (*models.Ticket, error)
}

type TicketHandler struct {
	tickets TicketScanner
}

func NewTicketHandler(tickets TicketScanner) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// Validate checks a scanned code. The verdict is always returned with 200;
// Valid and Reason tell the scanner what to show.
func (h *TicketHandler) Validate(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	result := h.tickets.Validate(e.Request.Context(), session, req.Code)
	return e.JSON(http.StatusOK, result)
}

// Redeem marks the ticket as used.
func (h *TicketHandler) Redeem(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	var req models.RedemptionRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	client := services.ClientInfo{
		UserAgent: e.Request.UserAgent(),
		IP:        clientIP(e),
	}

	ticket, err := h.tickets.Redeem(e.Request.Context(), session, e.Request.PathValue("id"), req, client)
	if err != nil {
		return apiError(e, err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Ticket marked as used",
		"ticket":  ticket,
	})
}
