package registration

import (
	"net/http"

	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	"github.com/Jakababa94/kenya-liga-hub/internal/transport"
	"github.com/Jakababa94/kenya-liga-hub/pkg/logger"
	"github.com/go-chi/chi"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
	}
}

// CheckEligibility handles GET /tournaments/{id}/registrations/eligibility?team_id=
func (h *Handler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	teamID := r.URL.Query().Get("team_id")
	if teamID == "" {
		h.WriteError(w, http.StatusBadRequest, "team_id is required")
		return
	}

	result := h.Service.Eligibility(r.Context(), teamID, chi.URLParam(r, "id"))
	if result.InfrastructureError() != nil {
		h.WriteJSON(w, http.StatusInternalServerError, result)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

// Register handles POST /tournaments/{id}/registrations
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.UserFromContext(r.Context())

	var req RegisterRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reg, err := h.Service.Register(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, reg)
}

// List handles GET /tournaments/{id}/registrations
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.UserFromContext(r.Context())

	regs, err := h.Service.List(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, regs)
}

// Mine handles GET /registrations/mine
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.UserFromContext(r.Context())

	regs, err := h.Service.Mine(r.Context(), caller)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, regs)
}

// Withdraw handles POST /registrations/{id}/withdraw
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.UserFromContext(r.Context())

	reg, err := h.Service.Withdraw(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, reg)
}

// Review handles POST /registrations/{id}/review
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.UserFromContext(r.Context())

	var req ReviewRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reg, err := h.Service.Review(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, reg)
}
