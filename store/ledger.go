package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/bazaarhub-dev/marketplace-api/models"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// InsufficientStockError reports how much stock was actually available so the
// caller can offer to adjust the cart.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %d: requested %d, only %d in stock", e.ProductID, e.Requested, e.Available)
}

// Ledger is the single source of truth for product stock. All decrements go
// through ReserveStock; nothing else in the codebase writes the stock column.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := l.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &product, nil
}

// GetProducts fetches a set of products in one query, keyed by id.
// Unknown ids are simply absent from the result.
func (l *Ledger) GetProducts(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	if len(ids) == 0 {
		return map[uint]models.Product{}, nil
	}

	var products []models.Product
	if err := l.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// ReserveStock atomically decrements stock by quantity if enough is available.
// The check and the decrement are a single conditional UPDATE, so two callers
// contending for the last unit cannot both succeed.
func (l *Ledger) ReserveStock(ctx context.Context, productID uint, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("product %d: quantity must be at least 1", productID)
	}

	res := l.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("reserve stock for product %d: %w", productID, res.Error)
	}

	if res.RowsAffected == 0 {
		// Re-read to tell an unknown product from an out-of-stock one.
		product, err := l.GetProduct(ctx, productID)
		if err != nil {
			return err
		}
		return &InsufficientStockError{
			ProductID: productID,
			Requested: quantity,
			Available: product.Stock,
		}
	}

	return nil
}

// RestoreStock increments stock by quantity. Compensation path for failed
// checkouts and for order cancellation.
func (l *Ledger) RestoreStock(ctx context.Context, productID uint, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("product %d: quantity must be at least 1", productID)
	}

	res := l.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("restore stock for product %d: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// AdjustStock applies an admin restock or correction delta. Negative deltas
// use the same conditional guard as ReserveStock so stock never goes below 0.
func (l *Ledger) AdjustStock(ctx context.Context, productID uint, delta int) error {
	if delta == 0 {
		return nil
	}
	if delta > 0 {
		return l.RestoreStock(ctx, productID, delta)
	}
	return l.ReserveStock(ctx, productID, -delta)
}
