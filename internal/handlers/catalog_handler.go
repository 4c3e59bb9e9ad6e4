package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"partner-portal/internal/services"
	"partner-portal/models"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
)

type ActivityManager interface {
	List(ctx context.Context, session models.PartnerSession) ([]models.Activity, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, session models.PartnerSession, form models.ActivityForm) (*models.Activity, error)
	Update(ctx context.Context, session models.PartnerSession, id string, form models.ActivityForm) (*models.Activity, error)
	Delete(ctx context.Context, session models.PartnerSession, id string) error
}

type TicketTypeManager interface {
	List(ctx context.Context, session models.PartnerSession) ([]models.TicketType, error)
	Create(ctx context.Context, session models.PartnerSession, form models.TicketTypeForm) (*models.TicketType, error)
	Update(ctx context.Context, session models.PartnerSession, id string, form models.TicketTypeForm) (*models.TicketType, error)
	Toggle(ctx context.Context, session models.PartnerSession, id string) (*models.TicketType, error)
	Delete(ctx context.Context, session models.PartnerSession, id string) error
}

type ProfileEditor interface {
	Get(ctx context.Context, session models.PartnerSession) (*models.Partner, error)
	Update(ctx context.Context, session models.PartnerSession, form models.ProfileForm) (*models.Partner, error)
}

type CatalogHandler struct {
	activities ActivityManager
	types      TicketTypeManager
	profiles   ProfileEditor
}

func NewCatalogHandler(activities ActivityManager, types TicketTypeManager, profiles ProfileEditor) *CatalogHandler {
	return &CatalogHandler{activities: activities, types: types, profiles: profiles}
}

func (h *CatalogHandler) ListActivities(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	activities, err := h.activities.List(e.Request.Context(), session)
	if err != nil {
		return apiError(e, err)
	}
	return e.JSON(http.StatusOK, map[string]any{"activities": activities})
}

func (h *CatalogHandler) Categories(e *core.RequestEvent) error {
	categories, err := h.activities.Categories(e.Request.Context())
	if err != nil {
		return apiError(e, err)
	}
	return e.JSON(http.StatusOK, map[string]any{"categories": categories})
}

func (h *CatalogHandler) CreateActivity(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	var form models.ActivityForm
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	activity, err := h.activities.Create(e.Request.Context(), session, form)
	if err != nil {
		return apiError(e, err)
	}
	return e.JSON(http.StatusCreated, activity)
}

func (h *CatalogHandler) UpdateActivity(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	var form models.ActivityForm
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	activity, err := h.activities.Update(e.Request.Context(), session, e.Request.PathValue("id"), form)
	if err != nil {
		return apiError(e, err)
	}
	return e.JSON(http.StatusOK, activity)
}

func (h *CatalogHandler) DeleteActivity(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	if err := h.activities.Delete(e.Request.Context(), session, e.Request.PathValue("id")); err != nil {
		return apiError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) ListTicketTypes(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	types, err := h.types.List(e.Request.Context(), session)
	if err != nil {
		return apiError(e, err)
	}
	return e.JSON(http.StatusOK, map[string]any{"ticket_types": types})
}

func (h *CatalogHandler) CreateTicketType(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	form := models.DefaultTicketTypeForm()
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	tt, err := h.types.Create(e.Request.Context(), session, form)
	if err != nil {
		return apiError(e, err)
	}
	return e.JSON(http.StatusCreated, tt)
}

func (h *CatalogHandler) UpdateTicketType(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	form := models.DefaultTicketTypeForm()
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	tt, err := h.types.Update(e.Request.Context(), session, e.Request.PathValue("id"), form)
	if err != nil {
		return apiError(e, err)
	}
	return e.JSON(http.StatusOK, tt)
}

func (h *CatalogHandler) ToggleTicketType(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	tt, err := h.types.Toggle(e.Request.Context(), session, e.Request.PathValue("id"))
	if err != nil {
		return apiError(e, err)
	}
	return e.JSON(http.StatusOK, tt)
}

func (h *CatalogHandler) DeleteTicketType(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	if err := h.types.Delete(e.Request.Context(), session, e.Request.PathValue("id")); err != nil {
		return apiError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) Profile(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	partner, err := h.profiles.Get(e.Request.Context(), session)
	if err != nil {
		return apiError(e, err)
	}
	return e.JSON(http.StatusOK, partner)
}

func (h *CatalogHandler) UpdateProfile(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	var form models.ProfileForm
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	partner, err := h.profiles.Update(e.Request.Context(), session, form)
	if err != nil {
		return apiError(e, err)
	}
	return e.JSON(http.StatusOK, partner)
}

type ImageUploader interface {
	Upload(ctx context.Context, session models.PartnerSession, r io.Reader, gallery bool) (*services.UploadedImage, error)
}

type ImageServer interface {
	Serve(w http.ResponseWriter, r *http.Request, key string) error
	Exists(key string) (bool, error)
}

type UploadHandler struct {
	uploads ImageUploader
	images  ImageServer
}

func NewUploadHandler(uploads ImageUploader, images ImageServer) *UploadHandler {
	return &UploadHandler{uploads: uploads, images: images}
}

// Upload stores every file sent under "file" or "files". ?gallery=true puts
// them in the activity's gallery folder.
func (h *UploadHandler) Upload(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	gallery, _ := strconv.ParseBool(e.Request.URL.Query().Get("gallery"))

	files, err := e.FindUploadedFiles("file")
	if err != nil || len(files) == 0 {
		files, err = e.FindUploadedFiles("files")
	}
	if err != nil || len(files) == 0 {
		return apis.NewBadRequestError("No image was uploaded.", nil)
	}

	uploaded := make([]*services.UploadedImage, 0, len(files))
	for _, file := range files {
		image, err := h.uploadOne(e, session, file.Reader, gallery)
		if err != nil {
			return apiError(e, err)
		}
		uploaded = append(uploaded, image)
	}

	if len(uploaded) == 1 {
		return e.JSON(http.StatusCreated, uploaded[0])
	}
	return e.JSON(http.StatusCreated, map[string]any{"images": uploaded})
}

func (h *UploadHandler) uploadOne(e *core.RequestEvent, session models.PartnerSession, reader filesystem.FileReader, gallery bool) (*services.UploadedImage, error) {
	f, err := reader.Open()
	if err != nil {
		return nil, fmt.Errorf("reader.Open(): %w", err)
	}
	defer f.Close()

	return h.uploads.Upload(e.Request.Context(), session, f, gallery)
}

// Serve streams a stored activity image. Only keys under the upload prefix
// are served.
func (h *UploadHandler) Serve(e *core.RequestEvent) error {
	key := e.Request.PathValue("path")
	if !services.IsImageKey(key) {
		return apis.NewNotFoundError("Image not found.", nil)
	}

	ok, err := h.images.Exists(key)
	if err != nil {
		return apiError(e, err)
	}
	if !ok {
		return apis.NewNotFoundError("Image not found.", nil)
	}

	e.Response.Header().Set("Cache-Control", "public, max-age=86400")
	return h.images.Serve(e.Response, e.Request, key)
}
