package match

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

// Create handles POST /tournaments/{id}/matches
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.UserFromContext(r.Context())

	var req CreateMatchRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.Create(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, m)
}

// ListByTournament handles GET /tournaments/{id}/matches
func (h *Handler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	matches, err := h.Service.ListByTournament(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, matches)
}

// Standings handles GET /tournaments/{id}/standings
func (h *Handler) Standings(w http.ResponseWriter, r *http.Request) {
	table, err := h.Service.Standings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, table)
}

// Get handles GET /matches/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, m)
}

// Update handles PATCH /matches/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.UserFromContext(r.Context())

	var req UpdateMatchRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.Update(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, m)
}

// Delete handles DELETE /matches/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.UserFromContext(r.Context())

	if err := h.Service.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListStatistics handles GET /matches/{id}/statistics
func (h *Handler) ListStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.ListStatistics(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

// UpsertStatistic handles PUT /matches/{id}/statistics
func (h *Handler) UpsertStatistic(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.UserFromContext(r.Context())

	var req UpsertStatisticRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stat, err := h.Service.UpsertStatistic(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stat)
}

// DeleteStatistic handles DELETE /matches/{id}/statistics/{statID}
func (h *Handler) DeleteStatistic(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.UserFromContext(r.Context())

	err := h.Service.DeleteStatistic(r.Context(), caller, chi.URLParam(r, "id"), chi.URLParam(r, "statID"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CareerStats handles GET /players/{id}/statistics
func (h *Handler) CareerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.CareerStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

// UserStats handles GET /users/me/stats
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.UserFromContext(r.Context())

	stats, err := h.Service.UserStats(r.Context(), caller)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}
