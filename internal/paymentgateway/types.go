package paymentgateway

import (
	"errors"
	"fmt"
)

const (
	tokenPath   = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath = "/mpesa/stkpush/v1/processrequest"

	TransactionTypePayBill = "CustomerPayBillOnline"
)

var (
	ErrCredentialsMissing = errors.New("M-Pesa credentials not configured")
	ErrUnavailable        = errors.New("M-Pesa gateway unavailable")
)

// RejectedError is returned when the gateway answered but refused the request.
type RejectedError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("mpesa rejected request (%s): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("mpesa rejected request: %s", e.Message)
}

type STKPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
	RequestID           string `json:"requestId,omitempty"`
	ErrorCode           string `json:"errorCode,omitempty"`
	ErrorMessage        string `json:"errorMessage,omitempty"`
}

func (r *STKPushResponse) Accepted() bool {
	return r.ResponseCode == "0"
}

func (r *STKPushResponse) failureMessage() string {
	switch {
	case r.ResponseDescription != "":
		return r.ResponseDescription
	case r.ErrorMessage != "":
		return r.ErrorMessage
	default:
		return "STK Push failed"
	}
}

// PushInput is what a caller supplies; the client fills in shortcode, credentials and callback.
type PushInput struct {
	Amount           float64
	PhoneNumber      string
	AccountReference string
	Description      string
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    string `json:"expires_in"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}
