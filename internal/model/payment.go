package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment records one confirmed checkout. TransactionID is the provider's
// payment intent id and is unique across all records.
type Payment struct {
	ID            string          `json:"_id" bson:"_id,omitempty" gorm:"type:char(36);primaryKey"`
	TransactionID string          `json:"transactionId" bson:"transactionId" gorm:"uniqueIndex;size:255;not null"`
	ParcelID      string          `json:"parcelId" bson:"parcelId" gorm:"size:64;index"`
	ParcelName    string          `json:"parcelName,omitempty" bson:"parcelName,omitempty" gorm:"size:255"`
	Amount        decimal.Decimal `json:"amount" bson:"amount" gorm:"type:decimal(12,2);not null"`
	Currency      string          `json:"currency" bson:"currency" gorm:"size:10"`
	CustomerEmail string          `json:"customerEmail" bson:"customerEmail" gorm:"size:255;index"`
	PaymentStatus PaymentStatus   `json:"paymentStatus" bson:"paymentStatus" gorm:"type:varchar(20);not null"`
	TrackingID    string          `json:"trackingId" bson:"trackingId" gorm:"size:40"`
	PaidAt        time.Time       `json:"paidAt" bson:"paidAt" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
