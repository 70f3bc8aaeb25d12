/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Request logger: slog logger carrying the request ID, stored in context
  3. Logger:     Access logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests from the calculator pages
  6. Rate limit: Per-client token bucket on /api (429 when exceeded)

ROUTE GROUPS:
  /api/calculators/*   Calculators
  /api/presets/*       Preset reference data
  /api/tax-tables/*    Tax bracket reference data
  /healthz             Liveness and database check

SECURITY NOTE:
  No authentication middleware. Every endpoint is a read-only computation
  or a reference data write with no user data.

SEE ALSO:
  - handlers.go: Handler implementations
  - ratelimit.go: Per-client limiter
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/warp/dividend-engine/logger"
)

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	AllowedOrigins []string

	// RateLimitRPS is the sustained per-client request rate. Zero disables
	// rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Health)

	// API routes
	r.Route("/api", func(r chi.Router) {
		if opts.RateLimitRPS > 0 {
			r.Use(newClientLimiter(opts.RateLimitRPS, opts.RateLimitBurst).middleware)
		}

		// Calculator routes
		r.Route("/calculators", func(r chi.Router) {
			r.Get("/drip", h.ProjectDrip)
			r.Post("/drip", h.ProjectDrip)
			r.Post("/dividend-growth", h.DividendGrowth)
			r.Post("/yield-on-cost", h.YieldOnCost)
			r.Post("/retirement-income", h.RetirementIncome)
			r.Post("/ira", h.IRA)
			r.Post("/401k", h.FourOhOneK)
			r.Post("/savings", h.Savings)
			r.Post("/compound-interest", h.CompoundInterest)
			r.Post("/investment-return", h.InvestmentReturn)
		})

		// Preset routes
		r.Route("/presets", func(r chi.Router) {
			r.Get("/", h.ListPresets)
			r.Post("/", h.CreatePreset)
			r.Get("/{id}", h.GetPreset)
			r.Delete("/{id}", h.DeletePreset)
			r.Get("/{id}/projection", h.GetPresetProjection)
		})

		// Tax table routes
		r.Route("/tax-tables", func(r chi.Router) {
			r.Get("/", h.ListTaxTables)
			r.Get("/{year}/{status}", h.GetTaxTable)
			r.Get("/{year}/{status}/profile", h.GetTaxProfile)
		})
	})

	return r
}

// requestLogger stores a logger tagged with the request ID in the context.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := logger.L.With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)
		next.ServeHTTP(w, r.WithContext(logger.ToContext(r.Context(), l)))
	})
}
