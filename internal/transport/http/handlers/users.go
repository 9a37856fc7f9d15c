package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "news-backend/internal/errors"
	"news-backend/internal/models"
	"news-backend/internal/transport/http/middleware"
	"news-backend/internal/users"
)

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, r)
		return
	}

	user, err := h.Users.ByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userToResponse(user))
}

func (h *Handlers) AvatarPresign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, r)
		return
	}

	if !canManageProfile(middleware.UserFrom(r.Context()), id) {
		apierrors.WriteError(w, r, users.ErrPermissionDenied)
		return
	}

	var in struct {
		ContentType   string `json:"content_type"`
		ContentLength int64  `json:"content_length"`
	}
	if err := decodeStrict(r, &in); err != nil {
		badRequest(w, r)
		return
	}

	info, err := h.Users.AvatarUploadURL(r.Context(), id, in.ContentType, in.ContentLength)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		UploadURL       string            `json:"upload_url"`
		AvatarKey       string            `json:"avatar_key"`
		RequiredHeaders map[string]string `json:"required_headers"`
	}{
		UploadURL:       info.UploadURL,
		AvatarKey:       info.AvatarKey,
		RequiredHeaders: info.RequiredHeaders,
	})
}

func (h *Handlers) AvatarConfirm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, r)
		return
	}

	if !canManageProfile(middleware.UserFrom(r.Context()), id) {
		apierrors.WriteError(w, r, users.ErrPermissionDenied)
		return
	}

	var in struct {
		AvatarKey string `json:"avatar_key"`
	}
	if err := decodeStrict(r, &in); err != nil {
		badRequest(w, r)
		return
	}

	url, err := h.Users.ConfirmAvatar(r.Context(), id, in.AvatarKey)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		AvatarURL string `json:"avatar_url"`
	}{AvatarURL: url})
}

// canManageProfile - профилем управляет сам владелец либо админ.
func canManageProfile(actor *models.User, profileID uuid.UUID) bool {
	if actor == nil {
		return false
	}

	return actor.ID == profileID || actor.Role == models.RoleAdmin
}
