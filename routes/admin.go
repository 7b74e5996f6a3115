package routes

import (
	orderControllers "github.com/bazaarhub-dev/marketplace-api/controllers/order"
	productController "github.com/bazaarhub-dev/marketplace-api/controllers/product"
	statsController "github.com/bazaarhub-dev/marketplace-api/controllers/stats"
	"github.com/bazaarhub-dev/marketplace-api/middleware"
	"github.com/bazaarhub-dev/marketplace-api/models"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers all "/admin/*" endpoints (admin/owner only).
func SetupAdminRoutes(r *gin.Engine, deps Deps) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuth(deps.Cfg), middleware.RequireRoles(models.RoleAdmin, models.RoleOwner))
	{
		productAdmin := admin.Group("/products")
		{
			productAdmin.POST("", productController.CreateProduct(deps.DB))
			productAdmin.PUT("/:id", productController.UpdateProduct(deps.DB))
			productAdmin.DELETE("/:id", productController.DeleteProduct(deps.DB))
			productAdmin.POST("/:id/restock", productController.RestockProduct(deps.DB, deps.Ledger))
			productAdmin.GET("/export-excel", productController.ExportProductsToExcel(deps.DB))
		}

		orderAdmin := admin.Group("/orders")
		{
			orderAdmin.GET("/export-excel", orderControllers.ExportOrdersToExcel(deps.DB))

			// websocket feed of order events for the admin dashboard
			orderAdmin.GET("/feed", deps.Hub.Handler())
		}

		admin.GET("/stats", statsController.GetStats(deps.DB))
	}
}
