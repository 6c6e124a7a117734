package payment

import (
	"regexp"
	"strings"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/core/common/validation"
)

var kenyanMobile = regexp.MustCompile(`^(\+?254|0)?[17]\d{8}$`)

type InitiateRequest struct {
	RegistrationID string  `json:"registration_id"`
	PhoneNumber    string  `json:"phone_number"`
	Amount         float64 `json:"amount"`
}

// Validate covers what the initiator itself relies on. The phone pattern is checked at the HTTP edge.
func (r InitiateRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("registration_id", r.RegistrationID).Required().UUID()
	v.Field("amount", r.Amount).Positive(internal.ErrCodeInvalidAmount)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (r InitiateRequest) ValidatePhone() error {
	v := validation.NewValidator()
	v.Field("phone_number", r.PhoneNumber).Required().Custom(func(value interface{}) *internal.AppError {
		s, _ := value.(string)
		s = strings.NewReplacer(" ", "", "-", "").Replace(s)
		if s != "" && !kenyanMobile.MatchString(s) {
			return internal.NewValidationFieldError("phone_number", "Invalid Kenyan phone number", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type InitiateResponse struct {
	Success bool     `json:"success"`
	Payment *Payment `json:"payment"`
	Message string   `json:"message"`
}

type CallbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ListFilter struct {
	RegistrationID string
}
