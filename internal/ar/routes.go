package ar

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/invoices", func(r chi.Router) {
		r.Post("/", h.CreateInvoice)
		r.Get("/", h.ListInvoices)
		r.Get("/{id}", h.GetInvoice)
		r.Post("/{id}/post", h.PostInvoice)
		r.Delete("/{id}", h.DeleteInvoice)
	})

	r.Route("/payments", func(r chi.Router) {
		r.Post("/", h.CreatePayment)
		r.Get("/", h.ListPayments)
		r.Get("/{id}", h.GetPayment)
		r.Delete("/{id}", h.DeletePayment)
	})
}
