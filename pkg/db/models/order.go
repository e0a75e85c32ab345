package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wisetee/orderline-backend/pkg/enums"
)

// Order is the single persisted record of the intake agent: one row per
// finalized (or pending) customer order, keyed by the customer-facing
// order number.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber   string              `gorm:"column:order_number;not null;uniqueIndex" json:"order_number"`
	Item          string              `gorm:"column:item;not null" json:"item"`
	CustomerName  string              `gorm:"column:customer_name;not null" json:"customer_name"`
	Email         string              `gorm:"column:email;not null;default:'N/A'" json:"email"`
	PhoneNumber   string              `gorm:"column:phone_number;not null" json:"phone_number"`
	Address       string              `gorm:"column:address;not null" json:"address"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	DeliveryTime  string              `gorm:"column:delivery_time;not null" json:"delivery_time"`
	Status        enums.OrderStatus   `gorm:"column:status;not null;default:'pending_payment'" json:"status"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null" json:"payment_method"`
	SourceWebsite string              `gorm:"column:source_website;not null;default:'Unknown'" json:"source_website"`
	ProofURL      *string             `gorm:"column:proof_url" json:"proof_url,omitempty"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table name stable regardless of gorm pluralization.
func (Order) TableName() string { return "orders" }
