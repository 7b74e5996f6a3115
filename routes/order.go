package routes

import (
	orderControllers "github.com/bazaarhub-dev/marketplace-api/controllers/order"
	"github.com/bazaarhub-dev/marketplace-api/middleware"
	"github.com/bazaarhub-dev/marketplace-api/models"
	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes registers all "/orders/*" endpoints.
func SetupOrderRoutes(r *gin.Engine, deps Deps) {
	orders := r.Group("/orders")
	orders.Use(middleware.RequireAuth(deps.Cfg))
	{
		// Convert the caller's cart into an order
		orders.POST("/checkout", middleware.RequireRoles(models.RoleCustomer), orderControllers.CheckoutHandler(deps.Converter))

		orders.GET("", orderControllers.ListOrdersHandler(deps.Orders))
		orders.GET("/:id", orderControllers.GetOrderHandler(deps.Orders))

		admin := orders.Group("")
		admin.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleOwner))
		{
			admin.PUT("/:id/status", orderControllers.UpdateOrderStatusHandler(deps.Orders, deps.Hub, deps.Metrics))
			admin.DELETE("/:id", orderControllers.DeleteOrderHandler(deps.Orders))
		}
	}
}
