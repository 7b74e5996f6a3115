package statsController

import (
	"net/http"

	"github.com/bazaarhub-dev/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /stats (admin/owner): dashboard counts.
func GetStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products, users, pendingProducts, orders, carts int64

		counts := []struct {
			query *gorm.DB
			dest  *int64
		}{
			{db.Model(&models.Product{}), &products},
			{db.Model(&models.User{}), &users},
			{db.Model(&models.PendingProduct{}).Where("status = ?", models.PendingStatusPending), &pendingProducts},
			{db.Model(&models.Order{}), &orders},
			{db.Model(&models.Cart{}), &carts},
		}

		for _, count := range counts {
			if err := count.query.Count(count.dest).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"products":         products,
			"users":            users,
			"pending_products": pendingProducts,
			"orders":           orders,
			"carts":            carts,
		})
	}
}
