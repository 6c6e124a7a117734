package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type stubProcessor struct {
	got    STKCallback
	result *CallbackResult
	err    error
}

func (s *stubProcessor) Process(_ context.Context, cb STKCallback) (*CallbackResult, error) {
	s.got = cb
	return s.result, s.err
}

type stubInitiator struct {
	caller *auth.User
	err    error
}

func (s *stubInitiator) Initiate(_ context.Context, caller *auth.User, req InitiateRequest) (*Payment, error) {
	s.caller = caller
	if s.err != nil {
		return nil, s.err
	}
	return &Payment{ID: "p-1", RegistrationID: req.RegistrationID, Status: "pending"}, nil
}

const callbackBody = `{
  "Body": {
    "stkCallback": {
      "MerchantRequestID": "29115-34620561-1",
      "CheckoutRequestID": "ws_CO_191220191020363925",
      "ResultCode": 0,
      "ResultDesc": "The service request is processed successfully.",
      "CallbackMetadata": {
        "Item": [
          {"Name": "Amount", "Value": 1.00},
          {"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
          {"Name": "TransactionDate", "Value": 20191219102115},
          {"Name": "PhoneNumber", "Value": 254708374149}
        ]
      }
    }
  }
}`

var _ = ginkgo.Describe("WebhookHandler", func() {
	var (
		processor *stubProcessor
		handler   *WebhookHandler
	)

	ginkgo.BeforeEach(func() {
		processor = &stubProcessor{result: &CallbackResult{PaymentID: "p-1", Status: "completed"}}
		handler = NewWebhookHandler(processor)
	})

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/mpesa/callback", strings.NewReader(body))
		handler.MpesaCallback(rec, req)
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var out map[string]interface{}
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &out)).To(gomega.Succeed())
		return out
	}

	ginkgo.It("acknowledges a processed callback", func() {
		rec := post(callbackBody)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(decode(rec)).To(gomega.Equal(map[string]interface{}{"success": true, "message": "Callback processed"}))
		gomega.Expect(processor.got.CheckoutRequestID).To(gomega.Equal("ws_CO_191220191020363925"))
		gomega.Expect(processor.got.Receipt()).To(gomega.Equal("NLJ7RT61SV"))
	})

	ginkgo.It("acknowledges replays with a distinct message", func() {
		processor.result.AlreadyProcessed = true
		rec := post(callbackBody)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(decode(rec)["message"]).To(gomega.Equal("Payment already processed"))
	})

	ginkgo.It("returns 404 for unknown payments", func() {
		processor.err = ErrPaymentNotFound
		rec := post(callbackBody)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
		gomega.Expect(decode(rec)).To(gomega.Equal(map[string]interface{}{"error": "Payment not found"}))
	})

	ginkgo.It("returns 500 so the gateway retries persistence failures", func() {
		processor.err = internal.NewInternalError("Failed to update payment", errors.New("db down"))
		rec := post(callbackBody)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
		gomega.Expect(decode(rec)["error"]).To(gomega.Equal("Failed to update payment"))
	})

	ginkgo.It("answers 404 when the callback carries no checkout id", func() {
		handler = NewWebhookHandler(NewCallbackProcessor(newMockRepository(), nil, testLogger()))

		rec := post(`{"Body":{"stkCallback":{"MerchantRequestID":"m-1","ResultCode":0,"ResultDesc":"ok"}}}`)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
		gomega.Expect(decode(rec)).To(gomega.Equal(map[string]interface{}{"error": "Payment not found"}))
	})

	ginkgo.It("rejects undecodable bodies", func() {
		rec := post(`{"Body":`)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
	})
})

var _ = ginkgo.Describe("Handler.InitiateSTKPush", func() {
	var (
		initiator *stubInitiator
		handler   *Handler
	)

	ginkgo.BeforeEach(func() {
		initiator = &stubInitiator{}
		handler = NewHandler(initiator, nil)
	})

	sendPhone := func(u *auth.User, phone string) *httptest.ResponseRecorder {
		body := `{"registration_id":"` + registrationID + `","phone_number":"` + phone + `","amount":1500}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/mpesa/stk-push", strings.NewReader(body))
		if u != nil {
			req = req.WithContext(auth.ContextWithUser(req.Context(), u))
		}
		rec := httptest.NewRecorder()
		handler.InitiateSTKPush(rec, req)
		return rec
	}
	send := func(u *auth.User) *httptest.ResponseRecorder { return sendPhone(u, "0712345678") }

	ginkgo.It("rejects malformed phone numbers before the initiator", func() {
		rec := sendPhone(&auth.User{ID: "u-1"}, "12345")

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("Invalid Kenyan phone number"))
		gomega.Expect(initiator.caller).To(gomega.BeNil())
	})

	ginkgo.It("wraps the payment in the success envelope", func() {
		rec := send(&auth.User{ID: "u-1"})

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		var out InitiateResponse
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &out)).To(gomega.Succeed())
		gomega.Expect(out.Success).To(gomega.BeTrue())
		gomega.Expect(out.Message).To(gomega.Equal("STK Push sent successfully. Please check your phone."))
		gomega.Expect(out.Payment.ID).To(gomega.Equal("p-1"))
		gomega.Expect(initiator.caller.ID).To(gomega.Equal("u-1"))
	})

	ginkgo.It("returns 401 without an authenticated caller", func() {
		rec := send(nil)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(initiator.caller).To(gomega.BeNil())
	})

	ginkgo.It("maps gateway outages to 502", func() {
		initiator.err = internal.NewUpstreamError("M-Pesa gateway unavailable", http.StatusBadGateway, internal.ErrCodeGatewayUnavailable)
		rec := send(&auth.User{ID: "u-1"})
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadGateway))
	})
})
