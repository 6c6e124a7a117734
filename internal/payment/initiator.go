package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	paymentdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/payment"
	"github.com/Jakababa94/kenya-liga-hub/internal/paymentgateway"
	"github.com/google/uuid"
)

type Gateway interface {
	STKPush(ctx context.Context, in paymentgateway.PushInput) (*paymentgateway.STKPushResponse, error)
}

type InitiatorRepository interface {
	GetRegistrationForPayment(ctx context.Context, registrationID string) (*RegistrationRef, error)
	Create(ctx context.Context, p *paymentdm.Payment) error
}

type InitiatorAPI interface {
	Initiate(ctx context.Context, caller *auth.User, req InitiateRequest) (*Payment, error)
}

// Initiator starts an STK push. The gateway is always asked first; a payments row is
// written only for a push the gateway acknowledged.
type Initiator struct {
	repo    InitiatorRepository
	gateway Gateway
	logger  *slog.Logger
}

func NewInitiator(repo InitiatorRepository, gateway Gateway, logger *slog.Logger) *Initiator {
	return &Initiator{
		repo:    repo,
		gateway: gateway,
		logger:  logger,
	}
}

// acknowledgement is the only thing commit accepts, so a row cannot exist without one.
type acknowledgement struct {
	userID            string
	registrationID    string
	phoneNumber       string
	amount            float64
	merchantRequestID string
	checkoutRequestID string
}

func (i *Initiator) Initiate(ctx context.Context, caller *auth.User, req InitiateRequest) (*Payment, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ack, err := i.attempt(ctx, caller, req)
	if err != nil {
		return nil, err
	}
	return i.commit(ctx, ack)
}

func (i *Initiator) attempt(ctx context.Context, caller *auth.User, req InitiateRequest) (*acknowledgement, error) {
	reg, err := i.repo.GetRegistrationForPayment(ctx, req.RegistrationID)
	if err != nil {
		if errors.Is(err, ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, internal.NewInternalError("Failed to load registration", err)
	}

	phone := NormalizePhone(req.PhoneNumber)

	i.logger.Info("initiating stk push",
		"registration_id", reg.ID,
		"user_id", caller.ID,
		"amount", req.Amount)

	resp, err := i.gateway.STKPush(ctx, paymentgateway.PushInput{
		Amount:           req.Amount,
		PhoneNumber:      phone,
		AccountReference: reg.ID,
		Description:      fmt.Sprintf("Payment for %s", reg.TournamentName),
	})
	if err != nil {
		i.logger.Warn("stk push not accepted", "registration_id", reg.ID, "error", err)
		return nil, gatewayError(err)
	}

	return &acknowledgement{
		userID:            caller.ID,
		registrationID:    reg.ID,
		phoneNumber:       phone,
		amount:            req.Amount,
		merchantRequestID: resp.MerchantRequestID,
		checkoutRequestID: resp.CheckoutRequestID,
	}, nil
}

func (i *Initiator) commit(ctx context.Context, ack *acknowledgement) (*Payment, error) {
	row := &paymentdm.Payment{
		ID:                uuid.NewString(),
		UserID:            ack.userID,
		RegistrationID:    ack.registrationID,
		Amount:            ack.amount,
		PhoneNumber:       ack.phoneNumber,
		MerchantRequestID: &ack.merchantRequestID,
		CheckoutRequestID: &ack.checkoutRequestID,
		Status:            paymentdm.StatusPending,
	}

	if err := i.repo.Create(ctx, row); err != nil {
		// the push is already on the payer's phone; the callback will 404 and the user can retry
		i.logger.Error("failed to record acknowledged stk push",
			"checkout_request_id", ack.checkoutRequestID,
			"registration_id", ack.registrationID,
			"error", err)
		return nil, internal.NewInternalError("Failed to create payment record", err)
	}

	i.logger.Info("payment pending",
		"payment_id", row.ID,
		"checkout_request_id", ack.checkoutRequestID)

	return FromModel(row), nil
}

func gatewayError(err error) error {
	var rejected *paymentgateway.RejectedError
	switch {
	case errors.Is(err, paymentgateway.ErrCredentialsMissing):
		return internal.NewUpstreamError("M-Pesa credentials not configured", http.StatusInternalServerError, internal.ErrCodeGatewayNotConfigured).WithCause(err)
	case errors.As(err, &rejected):
		return internal.NewUpstreamError(rejected.Message, http.StatusBadRequest, internal.ErrCodePaymentRejected).WithCause(err)
	case errors.Is(err, paymentgateway.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return internal.NewUpstreamError("M-Pesa gateway unavailable", http.StatusBadGateway, internal.ErrCodeGatewayUnavailable).WithCause(err)
	default:
		return internal.NewInternalError("Failed to initiate payment", err)
	}
}
