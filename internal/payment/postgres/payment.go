package postgres

import (
	"context"
	"errors"
	"time"

	paymentdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/payment"
	registrationdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/registration"
	"github.com/Jakababa94/kenya-liga-hub/internal/payment"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db, now: time.Now}
}

func (r *PaymentRepository) GetRegistrationForPayment(ctx context.Context, registrationID string) (*payment.RegistrationRef, error) {
	var row struct {
		ID             string
		Status         string
		TournamentName string
	}
	err := r.db.WithContext(ctx).
		Table("tournament_registrations AS r").
		Select("r.id, r.status, t.name AS tournament_name").
		Joins("JOIN tournaments t ON t.id = r.tournament_id").
		Where("r.id = ?", registrationID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrRegistrationNotFound
		}
		return nil, err
	}
	return &payment.RegistrationRef{ID: row.ID, Status: row.Status, TournamentName: row.TournamentName}, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *paymentdm.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*paymentdm.Payment, error) {
	var p paymentdm.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*paymentdm.Payment, error) {
	var p paymentdm.Payment
	if err := r.db.WithContext(ctx).Where("checkout_request_id = ?", checkoutRequestID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID string, filter payment.ListFilter) ([]paymentdm.Payment, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.RegistrationID != "" {
		q = q.Where("registration_id = ?", filter.RegistrationID)
	}

	var rows []paymentdm.Payment
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ApplyResult updates the payment only while it is still pending. A successful payment
// approves its pending registration in the same transaction.
func (r *PaymentRepository) ApplyResult(ctx context.Context, paymentID string, outcome payment.Outcome) (bool, error) {
	applied := false
	now := r.now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":      outcome.Status,
			"result_code": outcome.ResultCode,
			"result_desc": outcome.ResultDesc,
			"updated_at":  now,
		}
		if outcome.MpesaReceiptNumber != nil {
			updates["mpesa_receipt_number"] = *outcome.MpesaReceiptNumber
		}

		res := tx.Model(&paymentdm.Payment{}).
			Where("id = ? AND status = ?", paymentID, paymentdm.StatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true

		if outcome.ApproveRegistrationID == "" {
			return nil
		}
		return tx.Model(&registrationdm.Registration{}).
			Where("id = ? AND status = ?", outcome.ApproveRegistrationID, registrationdm.StatusPending).
			Updates(map[string]interface{}{
				"status":     registrationdm.StatusApproved,
				"updated_at": now,
			}).Error
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}
