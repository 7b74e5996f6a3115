package models

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // order placed, awaiting dispatch
	OrderStatusShipped   OrderStatus = "shipped"   // out for delivery
	OrderStatusDelivered OrderStatus = "delivered" // customer received the items
	OrderStatusCancelled OrderStatus = "cancelled" // cancelled before delivery
)

var validOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:   {},
	OrderStatusShipped:   {},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

func ToOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(s)
	_, ok := validOrderStatuses[status]
	return status, ok
}

// Transitions are forward-only: pending → shipped → delivered.
// Cancellation is allowed from pending or shipped and is terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusDelivered, OrderStatusCancelled},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order status cannot change from %q to %q", e.From, e.To)
}

type Order struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	Ref              string      `gorm:"uniqueIndex;not null" json:"ref"`
	UserID           string      `gorm:"not null;index" json:"user_id"`
	Items            []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount      float64     `json:"total_amount"`
	Status           OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	ExpectedDelivery time.Time   `json:"expected_delivery"`
	CreatedAt        time.Time   `json:"created_at"`
}

// OrderItem is a frozen snapshot of a cart line at checkout time.
// UnitPrice is the price observed at reservation, never re-derived.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	OrderID     uint    `gorm:"index" json:"-"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}
