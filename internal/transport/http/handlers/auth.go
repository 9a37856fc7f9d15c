package handlers

import (
	"net/http"
	"time"

	apierrors "news-backend/internal/errors"
	"news-backend/internal/models"
	"news-backend/internal/service"
	"news-backend/internal/transport/http/middleware"
)

type userResponse struct {
	ID               string `json:"id"`
	Login            string `json:"login"`
	Role             string `json:"role"`
	IsAuthorVerified bool   `json:"is_author_verified"`
	AvatarURL        string `json:"avatar_url,omitempty"`
	RegisteredAt     string `json:"registered_at"`
}

func userToResponse(u *models.User) userResponse {
	return userResponse{
		ID:               u.ID.String(),
		Login:            u.Login,
		Role:             u.Role.String(),
		IsAuthorVerified: u.IsAuthorVerified,
		AvatarURL:        u.AvatarURL,
		RegisteredAt:     u.RegisteredAt.UTC().Format(time.RFC3339),
	}
}

type tokenResponse struct {
	UserID          string `json:"user_id"`
	AccessToken     string `json:"access_token"`
	AccessExpiresAt string `json:"access_expires_at"`
}

type sessionResponse struct {
	JTI       string `json:"jti"`
	UserAgent string `json:"user_agent,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := decodeStrict(r, &in); err != nil {
		badRequest(w, r)
		return
	}

	user, err := h.Auth.RegisterUser(r.Context(), in.Login, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	// Регистрация не логинит: токенов в ответе нет.
	writeJSON(w, http.StatusCreated, userToResponse(user))
}

func (h *Handlers) LoginUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := decodeStrict(r, &in); err != nil {
		badRequest(w, r)
		return
	}

	pair, uid, err := h.Auth.LoginUser(r.Context(), in.Login, in.Password, r.UserAgent())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, tokenResponse{
		UserID:          uid.String(),
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) RefreshTokens(w http.ResponseWriter, r *http.Request) {
	token := refreshTokenFromRequest(r)
	if token == "" {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	pair, uid, err := h.Auth.RefreshTokens(r.Context(), token, r.UserAgent())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, tokenResponse{
		UserID:          uid.String(),
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	// Куку чистим в любом случае: logout на клиенте должен сработать,
	// даже если токен битый или сессии уже нет. Заголовок выставляем до
	// записи статуса, иначе Set-Cookie не уедет.
	h.clearRefreshCookie(w)

	token := refreshTokenFromRequest(r)
	if token != "" {
		if err := h.Auth.Logout(r.Context(), token); err != nil {
			apierrors.WriteError(w, r, err)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email     string `json:"email"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := decodeStrict(r, &in); err != nil {
		badRequest(w, r)
		return
	}

	if in.Email == "" {
		badRequest(w, r)
		return
	}

	identity := models.OAuthIdentity{Email: in.Email, Name: in.Name, AvatarURL: in.AvatarURL}
	pair, uid, err := h.Auth.OAuthLogin(r.Context(), identity, r.UserAgent())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, tokenResponse{
		UserID:          uid.String(),
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) Sessions(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFrom(r.Context())
	if actor == nil {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	list, err := h.Auth.UserSessions(r.Context(), actor.ID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]sessionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, sessionResponse{
			JTI:       s.JTI,
			UserAgent: s.UserAgent,
			CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, out)
}
