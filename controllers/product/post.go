package productController

import (
	"net/http"

	"github.com/bazaarhub-dev/marketplace-api/middleware"
	"github.com/bazaarhub-dev/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateProductInput struct {
	Name        string   `json:"name" binding:"required,min=3"`
	Description string   `json:"description" binding:"required,min=10,max=30"`
	Price       float64  `json:"price" binding:"min=0"`
	Category    string   `json:"category" binding:"required"`
	Stock       int      `json:"stock" binding:"min=0"`
	Images      []string `json:"images" binding:"omitempty,dive,url"`
}

// POST /admin/products (admin/owner)
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CallerID(c)

		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		product := models.Product{
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			Category:    input.Category,
			Stock:       input.Stock,
			Images:      input.Images,
			OwnedBy:     userID,
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}
