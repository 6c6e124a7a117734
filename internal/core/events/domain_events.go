package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePaymentCompleted     = "payment.completed"
	EventTypePaymentFailed        = "payment.failed"
	EventTypeRegistrationReviewed = "registration.reviewed"
)

type PaymentCompletedEvent struct {
	BaseEvent
	PaymentID          string  `json:"payment_id"`
	RegistrationID     string  `json:"registration_id"`
	CheckoutRequestID  string  `json:"checkout_request_id"`
	MpesaReceiptNumber string  `json:"mpesa_receipt_number"`
	Amount             float64 `json:"amount"`
}

func NewPaymentCompletedEvent(paymentID, registrationID, checkoutRequestID, receipt string, amount float64) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypePaymentCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id":           paymentID,
				"registration_id":      registrationID,
				"checkout_request_id":  checkoutRequestID,
				"mpesa_receipt_number": receipt,
				"amount":               amount,
			},
		},
		PaymentID:          paymentID,
		RegistrationID:     registrationID,
		CheckoutRequestID:  checkoutRequestID,
		MpesaReceiptNumber: receipt,
		Amount:             amount,
	}
}

type PaymentFailedEvent struct {
	BaseEvent
	PaymentID         string `json:"payment_id"`
	RegistrationID    string `json:"registration_id"`
	CheckoutRequestID string `json:"checkout_request_id"`
	ResultCode        string `json:"result_code"`
	ResultDesc        string `json:"result_desc"`
}

func NewPaymentFailedEvent(paymentID, registrationID, checkoutRequestID, resultCode, resultDesc string) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypePaymentFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id":          paymentID,
				"registration_id":     registrationID,
				"checkout_request_id": checkoutRequestID,
				"result_code":         resultCode,
				"result_desc":         resultDesc,
			},
		},
		PaymentID:         paymentID,
		RegistrationID:    registrationID,
		CheckoutRequestID: checkoutRequestID,
		ResultCode:        resultCode,
		ResultDesc:        resultDesc,
	}
}

type RegistrationReviewedEvent struct {
	BaseEvent
	RegistrationID string `json:"registration_id"`
	TournamentID   string `json:"tournament_id"`
	TeamID         string `json:"team_id"`
	Status         string `json:"status"`
	ReviewedBy     string `json:"reviewed_by"`
}

func NewRegistrationReviewedEvent(registrationID, tournamentID, teamID, status, reviewedBy string) *RegistrationReviewedEvent {
	return &RegistrationReviewedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeRegistrationReviewed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"registration_id": registrationID,
				"tournament_id":   tournamentID,
				"team_id":         teamID,
				"status":          status,
				"reviewed_by":     reviewedBy,
			},
		},
		RegistrationID: registrationID,
		TournamentID:   tournamentID,
		TeamID:         teamID,
		Status:         status,
		ReviewedBy:     reviewedBy,
	}
}
