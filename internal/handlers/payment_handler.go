package handlers

import (
	"context"
	"net/http"

	"partner-portal/internal/services"
	"partner-portal/models"

	"github.com/pocketbase/pocketbase/core"
)

type PayoutRequester interface {
	Overview(ctx context.Context, session models.PartnerSession) (*services.PaymentOverview, error)
	Request(ctx context.Context, session models.PartnerSession) (*models.Payment, error)
}

type PaymentHandler struct {
	payments PayoutRequester
}

func NewPaymentHandler(payments PayoutRequester) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Overview returns the payout history with earned, paid and pending totals.
func (h *PaymentHandler) Overview(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	overview, err := h.payments.Overview(e.Request.Context(), session)
	if err != nil {
		return apiError(e, err)
	}
	return e.JSON(http.StatusOK, overview)
}

// Request files a payout for the whole pending balance.
func (h *PaymentHandler) Request(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	payment, err := h.payments.Request(e.Request.Context(), session)
	if err != nil {
		return apiError(e, err)
	}

	return e.JSON(http.StatusCreated, map[string]any{
		"message": "Payment request submitted successfully",
		"payment": payment,
	})
}
