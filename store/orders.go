package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/bazaarhub-dev/marketplace-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStore reads orders and mutates their status. Order line items and
// totals are immutable after creation; only the status column ever changes.
type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order %d: %w", orderID, err)
	}
	return &order, nil
}

func (s *OrderStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).Preload("Items").
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderStore) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// UpdateStatus applies an administrative status change, enforcing the
// forward-only transition rules. Cancellation restores stock for every line
// item in the same transaction, so the ledger and the order move together.
func (s *OrderStore) UpdateStatus(ctx context.Context, orderID uint, next models.OrderStatus) (*models.Order, error) {
	var order models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Find(&order.Items).Error; err != nil {
			return err
		}

		if !order.Status.CanTransitionTo(next) {
			return &models.InvalidTransitionError{From: order.Status, To: next}
		}

		if err := tx.Model(&order).Update("status", next).Error; err != nil {
			return err
		}

		if next == models.OrderStatusCancelled {
			for _, item := range order.Items {
				res := tx.Model(&models.Product{}).
					Where("id = ?", item.ProductID).
					UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity))
				if res.Error != nil {
					return res.Error
				}
				// A product deleted since the order was placed has no stock
				// to restore; skip rather than fail the cancellation.
			}
		}

		return nil
	})
	if err != nil {
		var invalid *models.InvalidTransitionError
		if errors.Is(err, ErrOrderNotFound) || errors.As(err, &invalid) {
			return nil, err
		}
		return nil, fmt.Errorf("update status of order %d: %w", orderID, err)
	}

	return &order, nil
}

// DeleteOrder removes an order and its items (admin only).
func (s *OrderStore) DeleteOrder(ctx context.Context, orderID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", orderID).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		return tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return err
		}
		return fmt.Errorf("delete order %d: %w", orderID, err)
	}
	return nil
}
