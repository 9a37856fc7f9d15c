package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "news-backend/internal/errors"
	"news-backend/internal/models"
	"news-backend/internal/transport/http/middleware"
)

type newsResponse struct {
	ID        string          `json:"id"`
	AuthorID  string          `json:"author_id"`
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

func newsToResponse(n *models.News) newsResponse {
	return newsResponse{
		ID:        n.ID.String(),
		AuthorID:  n.AuthorID.String(),
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: n.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handlers) CreateNews(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Title   string          `json:"title"`
		Content json.RawMessage `json:"content"`
	}
	if err := decodeStrict(r, &in); err != nil {
		badRequest(w, r)
		return
	}

	item, err := h.News.Create(r.Context(), middleware.UserFrom(r.Context()), in.Title, in.Content)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newsToResponse(item))
}

func (h *Handlers) GetNewsByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, r)
		return
	}

	item, err := h.News.ByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newsToResponse(item))
}

func (h *Handlers) ListNews(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt32(w, r, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt32(w, r, "offset")
	if !ok {
		return
	}

	items, err := h.News.List(r.Context(), limit, offset)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]newsResponse, 0, len(items))
	for i := range items {
		out = append(out, newsToResponse(&items[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) RecentNews(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(w, r)
			return
		}
		days = n
	}

	items, err := h.News.Recent(r.Context(), days)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]newsResponse, 0, len(items))
	for i := range items {
		out = append(out, newsToResponse(&items[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) UpdateNews(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, r)
		return
	}

	var in struct {
		Title   string          `json:"title"`
		Content json.RawMessage `json:"content"`
	}
	if err := decodeStrict(r, &in); err != nil {
		badRequest(w, r)
		return
	}

	item, err := h.News.Update(r.Context(), middleware.UserFrom(r.Context()), id, in.Title, in.Content)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newsToResponse(item))
}

func (h *Handlers) DeleteNews(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, r)
		return
	}

	if err := h.News.Delete(r.Context(), middleware.UserFrom(r.Context()), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// queryInt32 читает неотрицательный числовой query-параметр.
// Отсутствующий параметр — ноль; мусор в значении — 400 и false.
func queryInt32(w http.ResponseWriter, r *http.Request, name string) (int32, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, true
	}

	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n < 0 {
		badRequest(w, r)
		return 0, false
	}

	return int32(n), true
}
