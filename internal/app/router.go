package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ledgerline/ledgerline/internal/accounting/accounts"
	"github.com/ledgerline/ledgerline/internal/accounting/journals"
	"github.com/ledgerline/ledgerline/internal/accounting/reports"
	"github.com/ledgerline/ledgerline/internal/ar"
	"github.com/ledgerline/ledgerline/internal/company"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	Modules        ModuleChecker

	CompanyHandler  *company.Handler
	AccountsHandler *accounts.Handler
	JournalsHandler *journals.Handler
	ARHandler       *ar.Handler
	ReportsHandler  *reports.Handler
	JobsHandler     *JobsHandler
}

// NewRouter constructs the chi.Router with the default middleware chain.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", params.CompanyHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(RequireSession(params.SessionManager, params.Logger))
			r.Use(RequireModule(params.Modules, company.ModuleAccounting, params.Logger))

			r.Route("/accounts", params.AccountsHandler.MountRoutes)
			r.Route("/journal-entries", params.JournalsHandler.MountRoutes)
			r.Route("/reports", params.ReportsHandler.MountRoutes)
			r.Route("/jobs", params.JobsHandler.MountRoutes)
			params.ARHandler.MountRoutes(r)
		})
	})

	return r
}
