package routes

import (
	cartControllers "github.com/bazaarhub-dev/marketplace-api/controllers/cart"
	"github.com/bazaarhub-dev/marketplace-api/middleware"
	"github.com/bazaarhub-dev/marketplace-api/models"
	"github.com/gin-gonic/gin"
)

// SetupCartRoutes registers all "/carts/*" endpoints.
func SetupCartRoutes(r *gin.Engine, deps Deps) {
	carts := r.Group("/carts")
	carts.Use(middleware.RequireAuth(deps.Cfg))
	{
		carts.GET("", cartControllers.GetCart(deps.DB, deps.Carts))
		carts.PUT("", middleware.RequireRoles(models.RoleCustomer), cartControllers.SetCartItems(deps.Carts))
		carts.DELETE("", middleware.RequireRoles(models.RoleCustomer), cartControllers.DeleteOwnCart(deps.Carts))

		carts.DELETE("/:user_id",
			middleware.RequireRoles(models.RoleAdmin, models.RoleOwner),
			cartControllers.DeleteUserCart(deps.Carts))
	}
}
