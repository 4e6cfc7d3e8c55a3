package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wp-temp-access/internal/config"
	"wp-temp-access/internal/handler"
	"wp-temp-access/internal/middleware"
)

type Handlers struct {
	Account   *handler.AccountHandler
	Dashboard *handler.DashboardHandler
	Activity  *handler.ActivityHandler
	System    *handler.SystemHandler
}

func New(cfg *config.Config, handlers Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.MutatingRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Get("/system", handlers.System.Info)
		api.Get("/sites", handlers.System.Sites)
		api.Get("/dashboard", handlers.Dashboard.Summary)
		api.Get("/activity", handlers.Activity.Recent)

		api.Route("/accounts", func(accounts chi.Router) {
			accounts.Get("/", handlers.Account.List)
			accounts.Post("/", handlers.Account.Create)
			accounts.Get("/reveal", handlers.Account.Reveal)
			accounts.Post("/delete", handlers.Account.Delete)
			accounts.Post("/cleanup", handlers.Account.Cleanup)
		})
	})

	return r
}
