// Package router sets up all HTTP routes and middleware chains for the
// Solarsite API. It organizes routes into public, rate-limited, and
// admin groups with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"solarsite/internal/handlers"
	"solarsite/internal/metrics"
	"solarsite/internal/middleware"
)

// Deps carries everything the route tree needs.
type Deps struct {
	Catalog  *handlers.Catalog
	Blog     *handlers.Blog
	Leads    *handlers.Leads
	Admin    *handlers.Admin
	Verifier middleware.TokenVerifier
	Limiter  *middleware.RateLimiter
	Metrics  *metrics.Collector
	CORS     string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(d.CORS))

	// Health check and metrics scrape — no auth.
	r.Get("/health", healthHandler)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	// Public catalog and blog reads.
	r.Get("/products", d.Catalog.List)
	r.Get("/products/{slug}", d.Catalog.Get)
	r.Get("/related-products", d.Catalog.Related)
	r.Get("/blogs", d.Blog.List)
	r.Get("/blogs/slug/{slug}", d.Blog.Get)

	// Engagement counters and lead forms share the abuse budget.
	r.Group(func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(d.Limiter.Limit)
		}

		r.Post("/blogs/slug/{slug}/view", d.Blog.View)
		r.Post("/blogs/slug/{slug}/like", d.Blog.Like)
		r.Post("/blogs/slug/{slug}/comment", d.Blog.Comment)

		r.Post("/submit-apply", d.Leads.SubmitApply)
		r.Post("/submit-whistleblower", d.Leads.SubmitWhistleblower)
		r.Post("/submit-product-support", d.Leads.SubmitProductSupport)
		r.Post("/submit-product-registration", d.Leads.SubmitProductRegistration)
		r.Post("/submit-techsquad", d.Leads.SubmitTechsquad)
		r.Post("/submit-warranty", d.Leads.SubmitWarranty)
	})

	// Back office — every route behind the admin-claim gate.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(d.Verifier))

		r.Post("/products", d.Catalog.Create)
		r.Put("/products/{id}", d.Catalog.Update)
		r.Delete("/products/{id}", d.Catalog.Delete)

		r.Post("/blogs", d.Blog.Create)
		r.Put("/blogs/{id}", d.Blog.Update)
		r.Delete("/blogs/{id}", d.Blog.Delete)

		r.Get("/leads", d.Leads.List)
		r.Post("/create-admin", d.Admin.CreateAdmin)
		r.Post("/upload", d.Admin.Upload)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
