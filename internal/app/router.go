package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/biztime/biztime/internal/companies"
	"github.com/biztime/biztime/internal/industries"
	"github.com/biztime/biztime/internal/invoices"
	"github.com/biztime/biztime/internal/observability"
	"github.com/biztime/biztime/internal/platform/httpx"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	CompaniesHandler  *companies.Handler
	InvoicesHandler   *invoices.Handler
	IndustriesHandler *industries.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with the three resource mounts and a
// JSON fallback for everything else.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/companies", params.CompaniesHandler.MountRoutes)
	r.Route("/invoices", params.InvoicesHandler.MountRoutes)
	r.Route("/industries", params.IndustriesHandler.MountRoutes)

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.RespondError(w, httpx.NotFound("Not Found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.RespondError(w, httpx.NotFound("Not Found"))
	})

	return r
}
