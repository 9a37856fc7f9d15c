package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "news-backend/internal/errors"
	"news-backend/internal/models"
	"news-backend/internal/transport/http/middleware"
)

type commentResponse struct {
	ID        string `json:"id"`
	NewsID    string `json:"news_id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
	IsDeleted bool   `json:"is_deleted"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func commentToResponse(c *models.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		NewsID:    c.NewsID.String(),
		UserID:    c.UserID.String(),
		Content:   c.Content,
		IsDeleted: c.IsDeleted,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	newsID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, r)
		return
	}

	var in struct {
		Content string `json:"content"`
	}
	if err := decodeStrict(r, &in); err != nil {
		badRequest(w, r)
		return
	}

	comment, err := h.Comments.Create(r.Context(), middleware.UserFrom(r.Context()), newsID, in.Content)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, commentToResponse(comment))
}

func (h *Handlers) GetCommentByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		badRequest(w, r)
		return
	}

	comment, err := h.Comments.ByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentToResponse(comment))
}

func (h *Handlers) ListCommentsByNews(w http.ResponseWriter, r *http.Request) {
	newsID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, r)
		return
	}

	limit, ok := queryInt32(w, r, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt32(w, r, "offset")
	if !ok {
		return
	}

	list, err := h.Comments.ListByNews(r.Context(), newsID, limit, offset)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]commentResponse, 0, len(list))
	for i := range list {
		out = append(out, commentToResponse(&list[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		badRequest(w, r)
		return
	}

	if err := h.Comments.Delete(r.Context(), middleware.UserFrom(r.Context()), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
