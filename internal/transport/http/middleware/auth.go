package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	apierrors "news-backend/internal/errors"
	"news-backend/internal/models"
	"news-backend/internal/service"
)

// TokenValidator проверяет access-токен и восстанавливает владельца из claims.
type TokenValidator interface {
	ValidateToken(ctx context.Context, accessToken string) (*models.User, error)
}

// UserLoader отдаёт пользователя (обычно через read-through-кэш; допустимое
// отставание ограничено TTL кэша).
type UserLoader interface {
	ByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Auth извлекает Bearer-токен из Authorization, валидирует его и кладёт
// пользователя в контекст по ключу CtxUser.
//
// Отсутствие заголовка не ошибка: запрос продолжается анонимно, решение
// принимает RequireUser на защищённых маршрутах. Предъявленный, но
// непроходящий токен — всегда 401.
func Auth(validator TokenValidator, loader UserLoader) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				next.ServeHTTP(w, r)
				return
			}

			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) || len(auth) == len(prefix) {
				apierrors.WriteError(w, r, service.ErrInvalidToken)
				return
			}

			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				apierrors.WriteError(w, r, service.ErrInvalidToken)
				return
			}

			actor, err := validator.ValidateToken(r.Context(), token)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			// Авторизация опирается на кэшированного пользователя:
			// claims токена могли устареть чуть раньше проекции.
			if loader != nil {
				cached, err := loader.ByID(r.Context(), actor.ID)
				if err != nil {
					apierrors.WriteError(w, r, service.ErrInvalidToken)
					return
				}
				actor = cached
			}

			ctx := context.WithValue(r.Context(), CtxUser, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser пропускает только аутентифицированные запросы.
func RequireUser() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserFrom(r.Context()) == nil {
				apierrors.WriteError(w, r, service.ErrInvalidToken)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFrom возвращает пользователя из контекста либо nil.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(CtxUser).(*models.User)
	return user
}
