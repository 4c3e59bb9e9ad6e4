package handlers

import (
	"context"
	"net/http"

	"partner-portal/internal/services"
	"partner-portal/models"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type SessionResolver interface {
	Login(ctx context.Context, form models.LoginForm) (*services.LoginResult, error)
	Resolve(ctx context.Context, partnerID string) (*models.PartnerSession, error)
	Logout(ctx context.Context, partnerID string) error
}

type PasswordChanger interface {
	ChangePassword(ctx context.Context, session models.PartnerSession, form models.PasswordForm) error
}

type AuthHandler struct {
	sessions SessionResolver
	profiles PasswordChanger
}

func NewAuthHandler(sessions SessionResolver, profiles PasswordChanger) *AuthHandler {
	return &AuthHandler{sessions: sessions, profiles: profiles}
}

// RequireSession resolves the partner behind the auth token and stores the
// session on the event. Routes behind it read it with currentSession.
func (h *AuthHandler) RequireSession(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Please sign in to continue.", nil)
	}

	session, err := h.sessions.Resolve(e.Request.Context(), e.Auth.Id)
	if err != nil {
		return apiError(e, err)
	}

	e.Set(sessionStoreKey, *session)
	return e.Next()
}

func (h *AuthHandler) Login(e *core.RequestEvent) error {
	var form models.LoginForm
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	result, err := h.sessions.Login(e.Request.Context(), form)
	if err != nil {
		return apiError(e, err)
	}

	return e.JSON(http.StatusOK, result)
}

func (h *AuthHandler) Logout(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	if err := h.sessions.Logout(e.Request.Context(), session.PartnerID); err != nil {
		return apiError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}
	return e.JSON(http.StatusOK, session)
}

func (h *AuthHandler) ChangePassword(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	var form models.PasswordForm
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := h.profiles.ChangePassword(e.Request.Context(), session, form); err != nil {
		return apiError(e, err)
	}
	return e.JSON(http.StatusOK, map[string]any{"message": "Password updated successfully"})
}
