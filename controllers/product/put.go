package productController

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bazaarhub-dev/marketplace-api/models"
	"github.com/bazaarhub-dev/marketplace-api/store"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateProductInput struct {
	Name        *string   `json:"name" binding:"omitempty,min=3"`
	Description *string   `json:"description" binding:"omitempty,min=10,max=30"`
	Price       *float64  `json:"price" binding:"omitempty,min=0"`
	Category    *string   `json:"category"`
	Images      *[]string `json:"images" binding:"omitempty,dive,url"`
}

type RestockInput struct {
	// Pointer so an explicit zero delta binds instead of failing required.
	Delta *int `json:"delta" binding:"required"`
}

// PUT /admin/products/:id (admin/owner)
//
// Catalog fields only. Stock is not writable here; the ledger owns it and the
// restock endpoint applies deltas atomically.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if input.Name != nil {
			product.Name = *input.Name
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Price != nil {
			product.Price = *input.Price
		}
		if input.Category != nil {
			product.Category = *input.Category
		}
		if input.Images != nil {
			product.Images = *input.Images
		}

		// Select keeps the stock column out of the update.
		if err := db.Model(&product).
			Select("name", "description", "price", "category", "images", "updated_at").
			Updates(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// POST /admin/products/:id/restock (admin/owner)
func RestockProduct(db *gorm.DB, ledger *store.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var input RestockInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := ledger.AdjustStock(c.Request.Context(), uint(id), *input.Delta); err != nil {
			var insufficient *store.InsufficientStockError
			switch {
			case errors.Is(err, store.ErrProductNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			case errors.As(err, &insufficient):
				c.JSON(http.StatusConflict, gin.H{
					"error":     "Correction would take stock below zero",
					"available": insufficient.Available,
				})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust stock"})
			}
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}
