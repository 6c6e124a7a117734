package payment

import (
	"errors"
	"net/http"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/transport"
	"github.com/Jakababa94/kenya-liga-hub/pkg/logger"
)

const (
	callbackProcessedMessage = "Callback processed"
	alreadyProcessedMessage  = "Payment already processed"
)

// WebhookHandler receives Daraja result callbacks. The route is public; Daraja retries on
// non-2xx so only a persistence failure returns 5xx.
type WebhookHandler struct {
	*transport.BaseHandler
	Processor CallbackProcessorAPI
}

func NewWebhookHandler(processor CallbackProcessorAPI) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Processor:   processor,
	}
}

type callbackError struct {
	Error string `json:"error"`
}

// MpesaCallback handles POST /api/v1/payments/mpesa/callback
func (h *WebhookHandler) MpesaCallback(w http.ResponseWriter, r *http.Request) {
	var env CallbackEnvelope
	if err := h.DecodeJSON(w, r, &env); err != nil {
		h.Logger.Error("invalid mpesa callback body", "error", err)
		h.WriteJSON(w, http.StatusBadRequest, callbackError{Error: "invalid request body"})
		return
	}

	cb := env.Body.STKCallback
	h.Logger.Info("received mpesa callback",
		"checkout_request_id", cb.CheckoutRequestID,
		"merchant_request_id", cb.MerchantRequestID,
		"result_code", int(cb.ResultCode),
		"result_desc", cb.ResultDesc)

	result, err := h.Processor.Process(r.Context(), cb)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			h.WriteJSON(w, http.StatusNotFound, callbackError{Error: "Payment not found"})
			return
		}
		h.Logger.Error("failed to process mpesa callback", "checkout_request_id", cb.CheckoutRequestID, "error", err)
		msg := "Failed to process callback"
		if appErr, ok := internal.IsAppError(err); ok {
			msg = appErr.Message
		}
		h.WriteJSON(w, http.StatusInternalServerError, callbackError{Error: msg})
		return
	}

	msg := callbackProcessedMessage
	if result.AlreadyProcessed {
		msg = alreadyProcessedMessage
	}
	h.WriteJSON(w, http.StatusOK, CallbackResponse{Success: true, Message: msg})
}
