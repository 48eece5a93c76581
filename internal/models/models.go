package models

import (
	"time"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string    `gorm:"not null"                  json:"name"`
	Description string    `gorm:"not null"                  json:"description"`
	Price       float64   `gorm:"not null"                  json:"price"`
	Image       string    `gorm:"not null"                  json:"image"`
	Category    string    `gorm:"not null"                  json:"category"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Order struct {
	ID              uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `gorm:"not null"                 json:"totalAmount"`
	StripeSessionID string      `gorm:"uniqueIndex;not null"     json:"stripeSessionId"`
	Status          string      `gorm:"not null;default:pending" json:"status"`
	CustomerEmail   string      `json:"customerEmail"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// OrderItem is a denormalized snapshot of a product at checkout time.
// ProductID 0 means the line item carries no catalog reference.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint    `gorm:"index;not null"           json:"order_id"`
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}
