package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"news-backend/internal/comments"
	"news-backend/internal/config"
	apierrors "news-backend/internal/errors"
	"news-backend/internal/news"
	"news-backend/internal/service"
	"news-backend/internal/users"
)

// refreshCookie — имя httponly-куки с refresh-токеном.
const refreshCookie = "refresh_token"

// Handlers агрегирует зависимости (сервисы прикладного слоя).
type Handlers struct {
	Auth     *service.Service
	News     *news.Service
	Comments *comments.Service
	Users    *users.Service

	env        string
	refreshTTL time.Duration
}

func New(auth *service.Service, newsSvc *news.Service, commentsSvc *comments.Service, usersSvc *users.Service, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:       auth,
		News:       newsSvc,
		Comments:   commentsSvc,
		Users:      usersSvc,
		env:        cfg.Env,
		refreshTTL: cfg.Auth.RefreshTokenTTL,
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// badRequest — вспомогалка: локальная ошибка парсинга -> 400.
func badRequest(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteError(w, r, apierrors.ErrBadRequest)
}

// setRefreshCookie кладёт refresh-токен в httponly-куку.
// Secure только вне локального окружения, иначе кука не доедет по http.
func (h *Handlers) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.refreshTTL / time.Second),
		HttpOnly: true,
		Secure:   h.env == "prod",
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.env == "prod",
		SameSite: http.SameSiteLaxMode,
	})
}

// refreshTokenFromRequest достаёт refresh-токен из куки либо из тела запроса.
func refreshTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(refreshCookie); err == nil && c.Value != "" {
		return c.Value
	}

	var in struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeStrict(r, &in); err != nil {
		return ""
	}

	return in.RefreshToken
}
