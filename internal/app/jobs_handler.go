package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
	"github.com/ledgerline/ledgerline/internal/shared"
	"github.com/ledgerline/ledgerline/jobs"
)

// JobsHandler exposes on-demand background job submission. The worker binary
// also runs the integrity sweep on a schedule; this endpoint is for kicking
// one off immediately for the caller's company.
type JobsHandler struct {
	logger *slog.Logger
	jobs   *jobs.Client
}

// NewJobsHandler constructs a JobsHandler value.
func NewJobsHandler(logger *slog.Logger, client *jobs.Client) *JobsHandler {
	return &JobsHandler{logger: logger, jobs: client}
}

// MountRoutes registers HTTP routes.
func (h *JobsHandler) MountRoutes(r chi.Router) {
	r.Post("/ledger-integrity", h.enqueueLedgerIntegrity)
}

func (h *JobsHandler) enqueueLedgerIntegrity(w http.ResponseWriter, r *http.Request) {
	id, _ := shared.IdentityFromContext(r.Context())
	info, err := h.jobs.EnqueueLedgerIntegrity(r.Context(), jobs.LedgerIntegrityPayload{
		CompanyID: id.CompanyID.String(),
	})
	if err != nil {
		h.logger.Error("enqueue ledger integrity", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "queued", "task_id": info.ID})
}
