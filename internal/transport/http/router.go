package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"news-backend/internal/transport/http/handlers"
	"news-backend/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *handlers.Handlers, auth middleware.TokenValidator, usersLoader middleware.UserLoader, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),               // безопасно ловим паники
		middleware.RequestID(),             // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger),    // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(),               // счётчики/гистограммы запросов
		middleware.Auth(auth, usersLoader), // валидируем Bearer и кладём пользователя в контекст
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Служебные эндпойнты без BasePath.
	root.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	root.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	root.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Регистрация маршрутов.
	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// auth
	r.Post("/auth/register", h.RegisterUser)
	r.Post("/auth/login", h.LoginUser)
	r.Post("/auth/refresh", h.RefreshTokens)
	r.Post("/auth/logout", h.Logout)
	r.Post("/auth/oauth", h.OAuthLogin)
	r.With(middleware.RequireUser()).Get("/auth/sessions", h.Sessions)

	// news
	r.Get("/news", h.ListNews)
	r.Get("/news/recent", h.RecentNews)
	r.Get("/news/{id}", h.GetNewsByID)
	r.With(middleware.RequireUser()).Post("/news", h.CreateNews)
	r.With(middleware.RequireUser()).Put("/news/{id}", h.UpdateNews)
	r.With(middleware.RequireUser()).Delete("/news/{id}", h.DeleteNews)

	// comments
	r.Get("/comments/{id}", h.GetCommentByID)
	r.Get("/news/{id}/comments", h.ListCommentsByNews)
	r.With(middleware.RequireUser()).Post("/news/{id}/comments", h.CreateComment)
	r.With(middleware.RequireUser()).Delete("/comments/{id}", h.DeleteComment)

	// users
	r.Get("/users/{id}", h.GetProfile)
	r.With(middleware.RequireUser()).Post("/users/{id}/avatar/presign", h.AvatarPresign)
	r.With(middleware.RequireUser()).Post("/users/{id}/avatar/confirm", h.AvatarConfirm)
}
