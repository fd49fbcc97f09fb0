// Package http собирает HTTP-роутер recipe-app: REST-эндпойнты аутентификации,
// служебные /livez, /healthz, /metrics и цепочку middleware.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nlanzo/recipe-app/internal/transport/http/handlers"
	"github.com/nlanzo/recipe-app/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	// CookieSecure и RefreshTTL пробрасываются в handlers (Set-Cookie).
	CookieSecure bool
	RefreshTTL   time.Duration
	// Ready — readiness-пробник для /healthz; nil означает "всегда готов".
	Ready func() bool
}

// AuthBackend — всё, что нужно роутеру от бизнес-логики.
type AuthBackend interface {
	handlers.AuthService
	middleware.TokenValidator
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc AuthBackend, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(),            // счётчики и длительность запросов
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Служебные эндпойнты.
	root.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	root.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if opts.Ready == nil || opts.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})
	root.Handle("/metrics", promhttp.Handler())

	// Зависимости хендлеров.
	h := handlers.New(svc, handlers.Options{
		CookieSecure: opts.CookieSecure,
		RefreshTTL:   opts.RefreshTTL,
	})

	// Регистрация маршрутов.
	root.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", h.Register)
		api.Post("/auth/login", h.Login)
		api.Post("/auth/refresh", h.Refresh)
		api.Post("/auth/logout", h.Logout)

		// Защищённые эндпойнты: Bearer access-токен обязателен.
		api.Group(func(priv chi.Router) {
			priv.Use(middleware.Authenticate(svc))
			priv.Get("/users/me", h.Me)
			priv.Put("/users/password", h.ChangePassword)
		})
	})

	return root
}
