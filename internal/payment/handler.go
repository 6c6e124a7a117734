package payment

import (
	"net/http"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	"github.com/Jakababa94/kenya-liga-hub/internal/transport"
	"github.com/Jakababa94/kenya-liga-hub/pkg/logger"
	"github.com/go-chi/chi"
)

const stkPushSentMessage = "STK Push sent successfully. Please check your phone."

type Handler struct {
	*transport.BaseHandler
	Initiator InitiatorAPI
	Service   ServiceAPI
}

func NewHandler(initiator InitiatorAPI, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Initiator:   initiator,
		Service:     svc,
	}
}

// InitiateSTKPush handles POST /api/v1/payments/mpesa/stk-push
func (h *Handler) InitiateSTKPush(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrUnauthenticated)
		return
	}

	var req InitiateRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.ValidatePhone(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	p, err := h.Initiator.Initiate(r.Context(), caller, req)
	if err != nil {
		logger.From(r.Context()).Warn("stk push failed", "registration_id", req.RegistrationID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, InitiateResponse{
		Success: true,
		Payment: p,
		Message: stkPushSentMessage,
	})
}

// ListPayments handles GET /api/v1/payments
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.UserFromContext(r.Context())

	filter := ListFilter{RegistrationID: r.URL.Query().Get("registration_id")}
	payments, err := h.Service.List(r.Context(), caller, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, payments)
}

// GetPayment handles GET /api/v1/payments/{id}
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.UserFromContext(r.Context())

	p, err := h.Service.Get(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}
