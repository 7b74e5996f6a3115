package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bazaarhub-dev/marketplace-api/models"
	"gorm.io/gorm"
)

// LineItemInput is one (product, quantity) pair in a cart replace request.
type LineItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CartValidationError struct {
	Reason string
}

func (e *CartValidationError) Error() string {
	return e.Reason
}

// CartStore owns the single active cart per user. It never touches stock.
type CartStore struct {
	db *gorm.DB
}

func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{db: db}
}

// GetCart returns the user's cart. An absent cart reads as an empty one.
func (s *CartStore) GetCart(ctx context.Context, userID string) (models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Cart{UserID: userID}, nil
		}
		return cart, fmt.Errorf("get cart for user %s: %w", userID, err)
	}
	return cart, nil
}

// SetItems replaces the full line-item set of the user's cart, creating the
// cart row if absent. Duplicate product ids in the input are merged by summing
// quantities, which makes the replace idempotent.
func (s *CartStore) SetItems(ctx context.Context, userID string, items []LineItemInput) (models.Cart, error) {
	var cart models.Cart

	merged, err := mergeLineItems(items)
	if err != nil {
		return cart, err
	}

	productIDs := make([]uint, 0, len(merged))
	for _, item := range merged {
		productIDs = append(productIDs, item.ProductID)
	}

	// Reject references to products that don't exist before writing anything.
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id IN ?", productIDs).Count(&count).Error; err != nil {
		return cart, fmt.Errorf("validate cart products: %w", err)
	}
	if int(count) != len(merged) {
		return cart, &CartValidationError{Reason: "cart references a product that does not exist"}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			cart = models.Cart{UserID: userID}
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		now := time.Now()
		cart.Items = cart.Items[:0]
		for _, item := range merged {
			cart.Items = append(cart.Items, models.CartItem{
				CartID:    cart.CartID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				AddedAt:   now,
			})
		}
		if len(cart.Items) > 0 {
			if err := tx.Create(&cart.Items).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return models.Cart{}, fmt.Errorf("set cart items for user %s: %w", userID, err)
	}

	return cart, nil
}

// Clear empties the cart's line items but keeps the cart row.
func (s *CartStore) Clear(ctx context.Context, userID string) error {
	var cart models.Cart
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // nothing to clear
		}
		return fmt.Errorf("clear cart for user %s: %w", userID, err)
	}

	if err := s.db.WithContext(ctx).Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("clear cart for user %s: %w", userID, err)
	}
	return nil
}

// Delete removes the user's cart entirely. Reports whether a cart existed.
func (s *CartStore) Delete(ctx context.Context, userID string) (bool, error) {
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&cart).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete cart for user %s: %w", userID, err)
	}
	return deleted, nil
}

func mergeLineItems(items []LineItemInput) ([]LineItemInput, error) {
	quantities := make(map[uint]int, len(items))
	for _, item := range items {
		if item.ProductID == 0 {
			return nil, &CartValidationError{Reason: "product_id is required"}
		}
		if item.Quantity < 1 {
			return nil, &CartValidationError{Reason: "quantity must be at least 1"}
		}
		quantities[item.ProductID] += item.Quantity
	}

	merged := make([]LineItemInput, 0, len(quantities))
	for id, qty := range quantities {
		merged = append(merged, LineItemInput{ProductID: id, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })

	return merged, nil
}
