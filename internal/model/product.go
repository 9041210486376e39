package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents an item in a merchant's catalog
type Product struct {
	ID              string         `json:"id" gorm:"type:uuid;primaryKey"`
	MerchantID      string         `json:"merchant_id" gorm:"type:uuid;index;not null"`
	Name            string         `json:"name" gorm:"type:varchar(255);not null"`
	Description     string         `json:"description" gorm:"type:text"`
	ImageURL        string         `json:"image_url" gorm:"type:varchar(512)"`
	Price           Money          `json:"price" gorm:"type:numeric(12,2);not null"`
	MinQuantity     int            `json:"min_quantity" gorm:"not null"`
	ShippingCharges Money          `json:"shipping_charges" gorm:"type:numeric(12,2);not null"`
	GSTAmount       Money          `json:"gst_amount" gorm:"column:gst_amount;type:numeric(12,2);not null"`
	DeliveryTime    string         `json:"delivery_time" gorm:"type:varchar(255)"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
