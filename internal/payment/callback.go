package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	paymentdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/payment"
	"github.com/Jakababa94/kenya-liga-hub/internal/core/events"
)

const receiptItemName = "MpesaReceiptNumber"

// CallbackEnvelope is the body Daraja POSTs to the callback URL.
type CallbackEnvelope struct {
	Body struct {
		STKCallback STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

type STKCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        ResultCode        `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

type CallbackMetadata struct {
	Item []CallbackItem `json:"Item"`
}

type CallbackItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value,omitempty"`
}

// ResultCode accepts both 0 and "0"; the sandbox and production disagree.
type ResultCode int

func (c *ResultCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("invalid ResultCode %q", string(b))
	}
	*c = ResultCode(n)
	return nil
}

func (cb STKCallback) Succeeded() bool {
	return cb.ResultCode == 0
}

func (cb STKCallback) Receipt() string {
	if cb.CallbackMetadata == nil {
		return ""
	}
	for _, item := range cb.CallbackMetadata.Item {
		if item.Name != receiptItemName || item.Value == nil {
			continue
		}
		if s, ok := item.Value.(string); ok {
			return s
		}
		return fmt.Sprint(item.Value)
	}
	return ""
}

// Outcome is the terminal state written for one callback.
type Outcome struct {
	Status             string
	ResultCode         string
	ResultDesc         string
	MpesaReceiptNumber *string
	// ApproveRegistrationID is set only for successful payments.
	ApproveRegistrationID string
}

type CallbackRepository interface {
	GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*paymentdm.Payment, error)
	// ApplyResult moves a pending payment to its terminal state and reports whether this call
	// did the transition.
	ApplyResult(ctx context.Context, paymentID string, outcome Outcome) (bool, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type CallbackResult struct {
	PaymentID        string
	RegistrationID   string
	Status           string
	AlreadyProcessed bool
}

type CallbackProcessorAPI interface {
	Process(ctx context.Context, cb STKCallback) (*CallbackResult, error)
}

type CallbackProcessor struct {
	repo      CallbackRepository
	publisher Publisher
	logger    *slog.Logger
}

func NewCallbackProcessor(repo CallbackRepository, publisher Publisher, logger *slog.Logger) *CallbackProcessor {
	return &CallbackProcessor{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (p *CallbackProcessor) Process(ctx context.Context, cb STKCallback) (*CallbackResult, error) {
	log := p.logger.With("checkout_request_id", cb.CheckoutRequestID, "result_code", int(cb.ResultCode))

	// no correlation id can match a payment
	if cb.CheckoutRequestID == "" {
		log.Warn("callback without checkout request id")
		return nil, ErrPaymentNotFound
	}

	existing, err := p.repo.GetByCheckoutRequestID(ctx, cb.CheckoutRequestID)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			log.Warn("callback for unknown payment")
			return nil, ErrPaymentNotFound
		}
		return nil, internal.NewInternalError("Failed to load payment", err)
	}

	result := &CallbackResult{
		PaymentID:      existing.ID,
		RegistrationID: existing.RegistrationID,
		Status:         existing.Status,
	}
	if existing.Status != paymentdm.StatusPending {
		log.Info("callback replay ignored", "payment_id", existing.ID, "status", existing.Status)
		result.AlreadyProcessed = true
		return result, nil
	}

	outcome := Outcome{
		Status:     paymentdm.StatusFailed,
		ResultCode: strconv.Itoa(int(cb.ResultCode)),
		ResultDesc: cb.ResultDesc,
	}
	if cb.Succeeded() {
		outcome.Status = paymentdm.StatusCompleted
		if receipt := cb.Receipt(); receipt != "" {
			outcome.MpesaReceiptNumber = &receipt
		}
		outcome.ApproveRegistrationID = existing.RegistrationID
	}

	applied, err := p.repo.ApplyResult(ctx, existing.ID, outcome)
	if err != nil {
		log.Error("failed to apply callback", "payment_id", existing.ID, "error", err)
		return nil, internal.NewInternalError("Failed to update payment", err)
	}
	if !applied {
		log.Info("callback lost race to a concurrent delivery", "payment_id", existing.ID)
		result.AlreadyProcessed = true
		return result, nil
	}
	result.Status = outcome.Status

	log.Info("payment callback applied", "payment_id", existing.ID, "status", outcome.Status)
	p.publish(ctx, existing, cb, outcome)

	return result, nil
}

func (p *CallbackProcessor) publish(ctx context.Context, row *paymentdm.Payment, cb STKCallback, outcome Outcome) {
	if p.publisher == nil {
		return
	}

	var event events.Event
	if outcome.Status == paymentdm.StatusCompleted {
		receipt := ""
		if outcome.MpesaReceiptNumber != nil {
			receipt = *outcome.MpesaReceiptNumber
		}
		event = events.NewPaymentCompletedEvent(row.ID, row.RegistrationID, cb.CheckoutRequestID, receipt, row.Amount)
	} else {
		event = events.NewPaymentFailedEvent(row.ID, row.RegistrationID, cb.CheckoutRequestID, outcome.ResultCode, outcome.ResultDesc)
	}

	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.Error("failed to publish payment event", "event_type", event.EventType(), "error", err)
	}
}
