package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuoteStatus is the merchant-controlled state of a quote request
type QuoteStatus string

const (
	StatusPending   QuoteStatus = "pending"
	StatusProcessed QuoteStatus = "processed"
	StatusRejected  QuoteStatus = "rejected"
)

// Valid reports whether s is one of the known statuses
func (s QuoteStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessed, StatusRejected:
		return true
	}
	return false
}

// QuoteRequest is a customer's request for pricing addressed to one merchant
type QuoteRequest struct {
	ID            string             `json:"id" gorm:"type:uuid;primaryKey"`
	MerchantID    string             `json:"merchant_id" gorm:"type:uuid;index;not null"`
	CustomerName  string             `json:"customer_name" gorm:"type:varchar(255);not null"`
	CustomerEmail string             `json:"customer_email" gorm:"type:varchar(255);not null"`
	CustomerPhone string             `json:"customer_phone" gorm:"type:varchar(64)"`
	Message       string             `json:"message" gorm:"type:text"`
	Status        QuoteStatus        `json:"status" gorm:"type:varchar(32);not null"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Items         []QuoteRequestItem `json:"items,omitempty" gorm:"foreignKey:QuoteRequestID"`
}

func (q *QuoteRequest) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.Status == "" {
		q.Status = StatusPending
	}
	return nil
}

// QuoteRequestItem is one product line of a quote request
type QuoteRequestItem struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey"`
	QuoteRequestID string    `json:"quote_request_id" gorm:"type:uuid;index;not null"`
	ProductID      string    `json:"product_id" gorm:"type:uuid;not null"`
	Quantity       int       `json:"quantity" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
	Product        *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (i *QuoteRequestItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
