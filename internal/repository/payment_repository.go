package repository

import (
	"context"

	"gorm.io/gorm"

	"zapshift/internal/model"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment record. A second record for the same
// transaction id fails with ErrDuplicate.
func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return translateError(conn(ctx, r.db).Create(payment).Error)
}

// FindByTransactionID finds a payment by the provider transaction id.
func (r *paymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	var payment model.Payment
	if err := conn(ctx, r.db).Where("transaction_id = ?", transactionID).First(&payment).Error; err != nil {
		return nil, translateError(err)
	}
	return &payment, nil
}

// List returns payments, newest first.
func (r *paymentRepository) List(ctx context.Context, filter PaymentFilter) ([]model.Payment, error) {
	q := conn(ctx, r.db).Model(&model.Payment{})
	if filter.CustomerEmail != "" {
		q = q.Where("customer_email = ?", filter.CustomerEmail)
	}
	payments := make([]model.Payment, 0)
	if err := q.Order("paid_at desc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Delete removes a payment record.
func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.db, &model.Payment{}, id)
}
