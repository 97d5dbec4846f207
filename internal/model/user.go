package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered account. Email is the natural key.
type User struct {
	ID          string    `json:"_id" bson:"_id,omitempty" gorm:"type:char(36);primaryKey"`
	Email       string    `json:"email" bson:"email" gorm:"uniqueIndex;size:255;not null"`
	DisplayName string    `json:"displayName" bson:"displayName" gorm:"size:255"`
	PhotoURL    string    `json:"photoURL,omitempty" bson:"photoURL,omitempty" gorm:"size:1024"`
	Region      string    `json:"region" bson:"region" gorm:"size:120"`
	District    string    `json:"district" bson:"district" gorm:"size:120"`
	Role        Role      `json:"role" bson:"role" gorm:"type:varchar(20);not null;default:'user';index"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
