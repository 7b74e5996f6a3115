package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bazaarhub-dev/marketplace-api/checkout"
	"github.com/bazaarhub-dev/marketplace-api/metrics"
	"github.com/bazaarhub-dev/marketplace-api/middleware"
	"github.com/bazaarhub-dev/marketplace-api/models"
	"github.com/bazaarhub-dev/marketplace-api/store"
	"github.com/bazaarhub-dev/marketplace-api/ws"
	"github.com/gin-gonic/gin"
)

type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// POST /orders/checkout: converts the caller's cart into an order.
func CheckoutHandler(converter *checkout.Converter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		order, err := converter.Checkout(c.Request.Context(), userID)
		if err != nil {
			var unavailable *checkout.UnavailableError
			var partial *checkout.PartialFailureError
			switch {
			case errors.Is(err, checkout.ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			case errors.As(err, &unavailable):
				// Enough detail for the client to offer a cart adjustment.
				c.JSON(http.StatusConflict, gin.H{
					"error":       "Some items are no longer available",
					"unavailable": unavailable.Lines,
				})
			case errors.As(err, &partial):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed, no order was placed"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
			}
			return
		}

		c.JSON(http.StatusCreated, order)
	}
}

// GET /orders: customers get their own orders, admin/owner get all.
func ListOrdersHandler(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := middleware.CallerRole(c)
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var (
			result []models.Order
			err    error
		)
		if role == models.RoleAdmin || role == models.RoleOwner {
			result, err = orders.ListOrders(c.Request.Context())
		} else {
			result, err = orders.ListUserOrders(c.Request.Context(), userID)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// GET /orders/:id: owner of the order, or admin/owner.
func GetOrderHandler(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		order, err := orders.GetOrder(c.Request.Context(), uint(id))
		if err != nil {
			if errors.Is(err, store.ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		role, _ := middleware.CallerRole(c)
		userID, _ := middleware.CallerID(c)
		if order.UserID != userID && role != models.RoleAdmin && role != models.RoleOwner {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not your order"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// PUT /orders/:id/status (admin/owner)
func UpdateOrderStatusHandler(orders *store.OrderStore, hub *ws.Hub, m *metrics.CheckoutMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		var input UpdateOrderStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		next, ok := models.ToOrderStatus(input.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
			return
		}

		order, err := orders.UpdateStatus(c.Request.Context(), uint(id), next)
		if err != nil {
			var invalid *models.InvalidTransitionError
			switch {
			case errors.Is(err, store.ErrOrderNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			case errors.As(err, &invalid):
				c.JSON(http.StatusConflict, gin.H{"error": invalid.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			}
			return
		}

		m.ObserveTransition(string(next))
		hub.Broadcast(ws.EventStatusChanged, order)

		c.JSON(http.StatusOK, order)
	}
}

// DELETE /orders/:id (admin/owner)
func DeleteOrderHandler(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		if err := orders.DeleteOrder(c.Request.Context(), uint(id)); err != nil {
			if errors.Is(err, store.ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
	}
}
