package reports

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/trial-balance", h.TrialBalance)
	r.Get("/balance-sheet", h.BalanceSheet)
	r.Get("/income-statement", h.IncomeStatement)
}
