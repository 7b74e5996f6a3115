package cartControllers

import (
	"errors"
	"net/http"

	"github.com/bazaarhub-dev/marketplace-api/middleware"
	"github.com/bazaarhub-dev/marketplace-api/models"
	"github.com/bazaarhub-dev/marketplace-api/store"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SetCartInput struct {
	Items []store.LineItemInput `json:"items" binding:"required"`
}

// GET /carts: customers get their own cart, admin/owner get every cart.
func GetCart(db *gorm.DB, carts *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := middleware.CallerRole(c)
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if role == models.RoleAdmin || role == models.RoleOwner {
			var all []models.Cart
			if err := db.Preload("Items").Find(&all).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch carts"})
				return
			}
			c.JSON(http.StatusOK, all)
			return
		}

		cart, err := carts.GetCart(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		c.JSON(http.StatusOK, cart)
	}
}

// PUT /carts: replaces the caller's full line-item set.
func SetCartItems(carts *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input SetCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, err := carts.SetItems(c.Request.Context(), userID, input.Items)
		if err != nil {
			var validation *store.CartValidationError
			if errors.As(err, &validation) {
				c.JSON(http.StatusBadRequest, gin.H{"error": validation.Reason})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}

		c.JSON(http.StatusOK, cart)
	}
}

// DELETE /carts: removes the caller's own cart.
func DeleteOwnCart(carts *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		deleted, err := carts.Delete(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cart"})
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cart deleted"})
	}
}

// DELETE /carts/:user_id (admin/owner)
func DeleteUserCart(carts *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID := c.Param("user_id")
		if targetID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		deleted, err := carts.Delete(c.Request.Context(), targetID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cart"})
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cart deleted"})
	}
}
