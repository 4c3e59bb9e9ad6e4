package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"partner-portal/models"

	"github.com/pocketbase/pocketbase/core"
)

const defaultKeepAlive = 25 * time.Second

type NotificationFeed interface {
	List(ctx context.Context, session models.PartnerSession, filter models.NotificationFilter) ([]models.Notification, error)
	MarkRead(ctx context.Context, session models.PartnerSession, id string) error
	MarkAllRead(ctx context.Context, session models.PartnerSession) (int64, error)
	Delete(ctx context.Context, session models.PartnerSession, id string) error
	Subscribe(ctx context.Context, session models.PartnerSession) (<-chan models.Notification, func())
}

type NotificationHandler struct {
	notifications NotificationFeed
	keepAlive     time.Duration
}

func NewNotificationHandler(notifications NotificationFeed) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, keepAlive: defaultKeepAlive}
}

func (h *NotificationHandler) List(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	filter := models.ParseNotificationFilter(e.Request.URL.Query().Get("filter"))
	notifications, err := h.notifications.List(e.Request.Context(), session, filter)
	if err != nil {
		return apiError(e, err)
	}

	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}

	return e.JSON(http.StatusOK, map[string]any{
		"notifications": notifications,
		"unread":        unread,
	})
}

func (h *NotificationHandler) MarkRead(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	if err := h.notifications.MarkRead(e.Request.Context(), session, e.Request.PathValue("id")); err != nil {
		return apiError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	updated, err := h.notifications.MarkAllRead(e.Request.Context(), session)
	if err != nil {
		return apiError(e, err)
	}
	return e.JSON(http.StatusOK, map[string]any{"updated": updated})
}

func (h *NotificationHandler) Delete(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	if err := h.notifications.Delete(e.Request.Context(), session, e.Request.PathValue("id")); err != nil {
		return apiError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

// Stream pushes the partner's new notifications as server-sent events until
// the client goes away.
func (h *NotificationHandler) Stream(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	ctx := e.Request.Context()
	feed, cancel := h.notifications.Subscribe(ctx, session)
	defer cancel()

	header := e.Response.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	e.Response.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprint(e.Response, ": connected\n\n"); err != nil {
		return nil
	}
	if err := e.Flush(); err != nil {
		return nil
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-feed:
			if !ok {
				return nil
			}
			data, err := json.Marshal(n)
			if err != nil {
				slog.Error("failed to encode notification", "id", n.ID, "error", err)
				continue
			}
			if _, err := fmt.Fprintf(e.Response, "event: notification\ndata: %s\n\n", data); err != nil {
				return nil
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(e.Response, ": ping\n\n"); err != nil {
				return nil
			}
		}
		if err := e.Flush(); err != nil {
			return nil
		}
	}
}
