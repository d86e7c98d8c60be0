package reports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
	"github.com/ledgerline/ledgerline/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func parseDateParam(r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}

func wantsCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == "csv"
}

func csvHeader(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
}

func (h *Handler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	id, _ := shared.IdentityFromContext(r.Context())
	asOf, ok := parseDateParam(r, "as_of")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "as_of must be YYYY-MM-DD")
		return
	}
	tb, err := h.service.TrialBalance(r.Context(), id.CompanyID, asOf)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if wantsCSV(r) {
		csvHeader(w, "trial_balance.csv")
		if err := WriteTrialBalanceCSV(w, tb); err != nil {
			h.logger.Error("trial balance export failed", "error", err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, tb)
}

func (h *Handler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	id, _ := shared.IdentityFromContext(r.Context())
	asOf, ok := parseDateParam(r, "as_of")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "as_of must be YYYY-MM-DD")
		return
	}
	bs, err := h.service.BalanceSheet(r.Context(), id.CompanyID, asOf)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if wantsCSV(r) {
		csvHeader(w, "balance_sheet.csv")
		if err := WriteBalanceSheetCSV(w, bs); err != nil {
			h.logger.Error("balance sheet export failed", "error", err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, bs)
}

func (h *Handler) IncomeStatement(w http.ResponseWriter, r *http.Request) {
	id, _ := shared.IdentityFromContext(r.Context())
	start, okStart := parseDateParam(r, "start_date")
	end, okEnd := parseDateParam(r, "end_date")
	if !okStart || !okEnd {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "start_date and end_date must be YYYY-MM-DD")
		return
	}
	pl, err := h.service.IncomeStatement(r.Context(), id.CompanyID, start, end)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if wantsCSV(r) {
		csvHeader(w, "income_statement.csv")
		if err := WriteIncomeStatementCSV(w, pl); err != nil {
			h.logger.Error("income statement export failed", "error", err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, pl)
}
