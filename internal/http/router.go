package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/ecokpi/internal/auth"
	authHandler "github.com/MrJamesThe3rd/ecokpi/internal/http/auth"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/export"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/importcsv"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/invoice"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/kpi"
	"github.com/MrJamesThe3rd/ecokpi/internal/metrics"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	AllowedOrigins []string
	Health         Pinger
	Metrics        *metrics.Metrics
	Auth           *auth.Service
}

func New(
	opts Options,
	authV1 *authHandler.Handler,
	invoicesV1 *invoice.Handler,
	kpisV1 *kpi.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(opts.Metrics.Middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "apikey"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", healthz(opts.Health))
	router.Handle("/metrics", opts.Metrics.Handler())

	// Legacy path used by existing SPA builds.
	router.Post("/api/postgrest-token", authV1.Token)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", authV1.Routes)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(opts.Auth))

			r.Route("/invoices", func(r chi.Router) {
				r.Route("/import", importV1.Routes)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json"))
					invoicesV1.Routes(r)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				kpisV1.Routes(r)
			})

			r.Route("/reports", exportV1.Routes)
		})
	})

	return router
}

func healthz(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			if err := p.PingContext(r.Context()); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
