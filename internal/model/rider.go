package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rider is a delivery rider application. Approval turns the applicant's
// user account into a rider account.
type Rider struct {
	ID               string      `json:"_id" bson:"_id,omitempty" gorm:"type:char(36);primaryKey"`
	RiderName        string      `json:"riderName" bson:"riderName" gorm:"size:255"`
	RiderEmail       string      `json:"riderEmail" bson:"riderEmail" gorm:"size:255;not null;index"`
	RiderPhone       string      `json:"riderPhone,omitempty" bson:"riderPhone,omitempty" gorm:"size:40"`
	RiderAge         int         `json:"riderAge,omitempty" bson:"riderAge,omitempty"`
	RiderRegion      string      `json:"riderRegion,omitempty" bson:"riderRegion,omitempty" gorm:"size:120"`
	RiderDistrict    string      `json:"riderDistrict" bson:"riderDistrict" gorm:"size:120;index"`
	NationalID       string      `json:"nid,omitempty" bson:"nid,omitempty" gorm:"size:64"`
	BikeBrand        string      `json:"bikeBrand,omitempty" bson:"bikeBrand,omitempty" gorm:"size:120"`
	BikeRegistration string      `json:"bikeRegistration,omitempty" bson:"bikeRegistration,omitempty" gorm:"size:64"`
	Status           RiderStatus `json:"status" bson:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	WorkStatus       WorkStatus  `json:"workStatus,omitempty" bson:"workStatus,omitempty" gorm:"type:varchar(20);index"`
	CreatedAt        time.Time   `json:"createdAt" bson:"createdAt" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Rider) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
