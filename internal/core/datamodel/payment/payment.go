package payment

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

type Payment struct {
	ID                 string    `gorm:"column:id;type:uuid;primaryKey"`
	UserID             string    `gorm:"column:user_id;type:uuid;not null;index:idx_payments_user_created"`
	RegistrationID     string    `gorm:"column:registration_id;type:uuid;not null;index"`
	Amount             float64   `gorm:"column:amount;not null"`
	PhoneNumber        string    `gorm:"column:phone_number;not null"`
	MerchantRequestID  *string   `gorm:"column:merchant_request_id"`
	CheckoutRequestID  *string   `gorm:"column:checkout_request_id;uniqueIndex"`
	MpesaReceiptNumber *string   `gorm:"column:mpesa_receipt_number"`
	Status             string    `gorm:"column:status;not null;default:pending"`
	ResultCode         *string   `gorm:"column:result_code"`
	ResultDesc         *string   `gorm:"column:result_desc"`
	CreatedAt          time.Time `gorm:"column:created_at;index:idx_payments_user_created"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
