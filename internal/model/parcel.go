package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Parcel is a delivery request created by a sender.
type Parcel struct {
	ID           string          `json:"_id" bson:"_id,omitempty" gorm:"type:char(36);primaryKey"`
	ParcelType   string          `json:"parcelType,omitempty" bson:"parcelType,omitempty" gorm:"size:40"`
	ParcelName   string          `json:"parcelName" bson:"parcelName" gorm:"size:255"`
	ParcelWeight float64         `json:"parcelWeight,omitempty" bson:"parcelWeight,omitempty"`
	Cost         decimal.Decimal `json:"cost" bson:"cost" gorm:"type:decimal(12,2);not null;default:0"`

	SenderName     string `json:"senderName,omitempty" bson:"senderName,omitempty" gorm:"size:255"`
	SenderEmail    string `json:"senderEmail" bson:"senderEmail" gorm:"size:255;index"`
	SenderPhone    string `json:"senderPhone,omitempty" bson:"senderPhone,omitempty" gorm:"size:40"`
	SenderRegion   string `json:"senderRegion,omitempty" bson:"senderRegion,omitempty" gorm:"size:120"`
	SenderDistrict string `json:"senderDistrict,omitempty" bson:"senderDistrict,omitempty" gorm:"size:120"`
	SenderAddress  string `json:"senderAddress,omitempty" bson:"senderAddress,omitempty" gorm:"size:512"`

	ReceiverName     string `json:"receiverName,omitempty" bson:"receiverName,omitempty" gorm:"size:255"`
	ReceiverEmail    string `json:"receiverEmail,omitempty" bson:"receiverEmail,omitempty" gorm:"size:255"`
	ReceiverPhone    string `json:"receiverPhone,omitempty" bson:"receiverPhone,omitempty" gorm:"size:40"`
	ReceiverRegion   string `json:"receiverRegion,omitempty" bson:"receiverRegion,omitempty" gorm:"size:120"`
	ReceiverDistrict string `json:"receiverDistrict,omitempty" bson:"receiverDistrict,omitempty" gorm:"size:120"`
	ReceiverAddress  string `json:"receiverAddress,omitempty" bson:"receiverAddress,omitempty" gorm:"size:512"`

	RiderID    string `json:"riderId,omitempty" bson:"riderId,omitempty" gorm:"size:64"`
	RiderName  string `json:"riderName,omitempty" bson:"riderName,omitempty" gorm:"size:255"`
	RiderEmail string `json:"riderEmail,omitempty" bson:"riderEmail,omitempty" gorm:"size:255;index"`

	DeliveryStatus DeliveryStatus `json:"deliveryStatus,omitempty" bson:"deliveryStatus,omitempty" gorm:"type:varchar(40);index"`
	PaymentStatus  PaymentStatus  `json:"paymentStatus" bson:"paymentStatus" gorm:"type:varchar(20);not null;default:'unpaid'"`
	TrackingID     string         `json:"trackingId,omitempty" bson:"trackingId,omitempty" gorm:"size:40;index"`
	CreatedAt      time.Time      `json:"createdAt" bson:"createdAt" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Parcel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
