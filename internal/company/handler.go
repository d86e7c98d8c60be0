package company

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
	"github.com/ledgerline/ledgerline/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	sessions *shared.SessionManager
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager) *Handler {
	return &Handler{logger: logger, service: service, sessions: sessions, validate: validator.New()}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	identity := shared.Identity{CompanyID: resp.Company.ID, UserID: resp.User.ID}
	if _, err := h.sessions.Issue(r.Context(), w, identity); err != nil {
		h.logger.Error("session issue failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "could not create session")
		return
	}
	httpx.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	identity := shared.Identity{CompanyID: resp.Company.ID, UserID: resp.User.ID}
	if _, err := h.sessions.Issue(r.Context(), w, identity); err != nil {
		h.logger.Error("session issue failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "could not create session")
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		h.logger.Warn("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
