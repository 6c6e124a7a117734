package payment

import (
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	paymentdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/payment"
)

// Payment is the API view of a payments row.
type Payment struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	RegistrationID     string    `json:"registration_id"`
	Amount             float64   `json:"amount"`
	PhoneNumber        string    `json:"phone_number"`
	MerchantRequestID  *string   `json:"merchant_request_id"`
	CheckoutRequestID  *string   `json:"checkout_request_id"`
	MpesaReceiptNumber *string   `json:"mpesa_receipt_number"`
	Status             string    `json:"status"`
	ResultCode         *string   `json:"result_code"`
	ResultDesc         *string   `json:"result_desc"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func FromModel(m *paymentdm.Payment) *Payment {
	if m == nil {
		return nil
	}
	return &Payment{
		ID:                 m.ID,
		UserID:             m.UserID,
		RegistrationID:     m.RegistrationID,
		Amount:             m.Amount,
		PhoneNumber:        m.PhoneNumber,
		MerchantRequestID:  m.MerchantRequestID,
		CheckoutRequestID:  m.CheckoutRequestID,
		MpesaReceiptNumber: m.MpesaReceiptNumber,
		Status:             m.Status,
		ResultCode:         m.ResultCode,
		ResultDesc:         m.ResultDesc,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// RegistrationRef is the slice of a registration the initiator needs.
type RegistrationRef struct {
	ID             string
	Status         string
	TournamentName string
}

var (
	ErrPaymentNotFound      = internal.NewNotFoundError("Payment not found", internal.ErrCodePaymentNotFound)
	ErrRegistrationNotFound = internal.NewNotFoundError("Registration not found", internal.ErrCodeRegistrationNotFound)
)
