package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/bazaarhub-dev/marketplace-api/metrics"
	"github.com/bazaarhub-dev/marketplace-api/models"
	"github.com/bazaarhub-dev/marketplace-api/store"
	"github.com/bazaarhub-dev/marketplace-api/ws"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEmptyCart = errors.New("cart is empty")

// deliveryEstimate is added to the order creation time for the default
// expected-delivery date.
const deliveryEstimate = 4 * 24 * time.Hour

// UnavailableLine reports one cart line that could not be reserved, with the
// quantity that was actually available at checkout time.
type UnavailableLine struct {
	ProductID uint `json:"product_id"`
	Requested int  `json:"requested"`
	Available int  `json:"available"`
}

// UnavailableError means at least one line failed reservation; every
// reservation granted during the attempt has already been rolled back.
type UnavailableError struct {
	Lines []UnavailableLine
}

func (e *UnavailableError) Error() string {
	parts := make([]string, 0, len(e.Lines))
	for _, line := range e.Lines {
		parts = append(parts, fmt.Sprintf("product %d (requested %d, available %d)",
			line.ProductID, line.Requested, line.Available))
	}
	return "insufficient stock: " + strings.Join(parts, ", ")
}

// PartialFailureError means reservations succeeded but the order write or the
// cart clear failed afterwards. If CompensationFailed is set the ledger was
// left decremented without an order and needs manual reconciliation.
type PartialFailureError struct {
	Cause              error
	CompensationFailed bool
}

func (e *PartialFailureError) Error() string {
	if e.CompensationFailed {
		return fmt.Sprintf("checkout failed after reservation and stock could not be restored: %v", e.Cause)
	}
	return fmt.Sprintf("checkout failed after reservation, stock restored: %v", e.Cause)
}

func (e *PartialFailureError) Unwrap() error { return e.Cause }

// Converter turns a user's cart into an order: reserve stock for every line,
// write the order and clear the cart, or roll every reservation back.
type Converter struct {
	db      *gorm.DB
	ledger  *store.Ledger
	carts   *store.CartStore
	hub     *ws.Hub
	metrics *metrics.CheckoutMetrics
}

func NewConverter(db *gorm.DB, ledger *store.Ledger, carts *store.CartStore, hub *ws.Hub, m *metrics.CheckoutMetrics) *Converter {
	return &Converter{db: db, ledger: ledger, carts: carts, hub: hub, metrics: m}
}

// reservation records a granted stock decrement so it can be compensated.
type reservation struct {
	productID uint
	quantity  int
}

// Checkout converts the user's current cart into an order.
//
// On success the order exists, stock is decremented by exactly the ordered
// quantities and the cart is empty. On failure none of those effects remain.
func (c *Converter) Checkout(ctx context.Context, userID string) (*models.Order, error) {
	cart, err := c.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		c.metrics.ObserveCheckout(metrics.OutcomeEmptyCart)
		return nil, ErrEmptyCart
	}

	// Ascending product id: concurrent multi-item checkouts touch rows in the
	// same order and failure reports are reproducible.
	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	productIDs := make([]uint, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	// One batched read captures the unit prices used for the total.
	products, err := c.ledger.GetProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	// Once reservation starts the attempt must reach a terminal state even if
	// the caller goes away, so compensation is never abandoned mid-flight.
	ctx = context.WithoutCancel(ctx)

	var (
		granted     []reservation
		unavailable []UnavailableLine
	)
	for _, item := range items {
		if _, ok := products[item.ProductID]; !ok {
			// Product deleted since it was added to the cart.
			unavailable = append(unavailable, UnavailableLine{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: 0,
			})
			continue
		}

		if err := c.ledger.ReserveStock(ctx, item.ProductID, item.Quantity); err != nil {
			var insufficient *store.InsufficientStockError
			switch {
			case errors.As(err, &insufficient):
				unavailable = append(unavailable, UnavailableLine{
					ProductID: item.ProductID,
					Requested: item.Quantity,
					Available: insufficient.Available,
				})
			case errors.Is(err, store.ErrProductNotFound):
				unavailable = append(unavailable, UnavailableLine{
					ProductID: item.ProductID,
					Requested: item.Quantity,
					Available: 0,
				})
			default:
				// Storage fault mid-reservation: roll back what was granted.
				c.rollback(ctx, granted, "")
				c.metrics.ObserveCheckout(metrics.OutcomeRolledBack)
				return nil, fmt.Errorf("reserve stock: %w", err)
			}
			continue
		}

		granted = append(granted, reservation{productID: item.ProductID, quantity: item.Quantity})
	}

	// All-or-nothing: any unavailable line voids the whole attempt.
	if len(unavailable) > 0 {
		c.rollback(ctx, granted, "")
		c.metrics.ObserveCheckout(metrics.OutcomeRolledBack)
		return nil, &UnavailableError{Lines: unavailable}
	}

	var total float64
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		product := products[item.ProductID]
		total += product.Price * float64(item.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
		})
	}

	now := time.Now()
	order := models.Order{
		Ref:              generateOrderRef(),
		UserID:           userID,
		Items:            orderItems,
		TotalAmount:      total,
		Status:           models.OrderStatusPending,
		ExpectedDelivery: now.Add(deliveryEstimate),
		CreatedAt:        now,
	}

	// Order write and cart clear commit together.
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		compensationFailed := !c.rollback(ctx, granted, order.Ref)
		c.metrics.ObserveCheckout(metrics.OutcomePartialFailure)
		return nil, &PartialFailureError{Cause: err, CompensationFailed: compensationFailed}
	}

	c.metrics.ObserveCheckout(metrics.OutcomeCommitted)
	c.hub.Broadcast(ws.EventOrderCreated, order)

	return &order, nil
}

// rollback restores every granted reservation. Returns false if any restore
// failed, in which case the inconsistency is logged for manual reconciliation.
func (c *Converter) rollback(ctx context.Context, granted []reservation, orderRef string) bool {
	ok := true
	for _, r := range granted {
		if err := c.ledger.RestoreStock(ctx, r.productID, r.quantity); err != nil {
			ok = false
			log.Printf("FATAL-INCONSISTENCY: order ref %q: failed to restore %d units of product %d: %v",
				orderRef, r.quantity, r.productID, err)
		}
	}
	return ok
}

func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}
