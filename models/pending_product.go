package models

import "time"

type PendingStatus string

const (
	PendingStatusPending  PendingStatus = "pending"
	PendingStatusAccepted PendingStatus = "accepted"
	PendingStatusRejected PendingStatus = "rejected"
)

// PendingProduct is a vendor submission awaiting admin approval.
// Approval copies it into the products table; the submission keeps its
// status so vendors can see the outcome.
type PendingProduct struct {
	ID          uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnedBy     string        `gorm:"not null;index" json:"owned_by"`
	Name        string        `gorm:"not null" json:"name"`
	Description string        `gorm:"not null" json:"description"`
	Price       float64       `gorm:"not null" json:"price"`
	Category    string        `gorm:"not null" json:"category"`
	Stock       int           `gorm:"not null;default:0" json:"stock"`
	Images      []string      `gorm:"serializer:json" json:"images"`
	Status      PendingStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
