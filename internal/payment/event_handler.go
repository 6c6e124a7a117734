package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jakababa94/kenya-liga-hub/internal/core/events"
)

// EventHandler keeps an audit trail of payment outcomes in the structured log.
type EventHandler struct {
	logger *slog.Logger
}

func NewEventHandler(logger *slog.Logger) *EventHandler {
	return &EventHandler{logger: logger}
}

func (h *EventHandler) HandlePaymentCompleted(_ context.Context, event events.Event) error {
	e, ok := event.(*events.PaymentCompletedEvent)
	if !ok {
		return fmt.Errorf("expected PaymentCompletedEvent, got %T", event)
	}

	h.logger.Info("audit: payment completed",
		"event_id", e.EventID(),
		"payment_id", e.PaymentID,
		"registration_id", e.RegistrationID,
		"mpesa_receipt_number", e.MpesaReceiptNumber,
		"amount", e.Amount)
	return nil
}

func (h *EventHandler) HandlePaymentFailed(_ context.Context, event events.Event) error {
	e, ok := event.(*events.PaymentFailedEvent)
	if !ok {
		return fmt.Errorf("expected PaymentFailedEvent, got %T", event)
	}

	h.logger.Warn("audit: payment failed",
		"event_id", e.EventID(),
		"payment_id", e.PaymentID,
		"registration_id", e.RegistrationID,
		"result_code", e.ResultCode,
		"result_desc", e.ResultDesc)
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypePaymentCompleted, h.HandlePaymentCompleted)
	eventBus.Subscribe(events.EventTypePaymentFailed, h.HandlePaymentFailed)

	h.logger.Info("payment event handlers registered",
		"handlers", []string{events.EventTypePaymentCompleted, events.EventTypePaymentFailed})
}
