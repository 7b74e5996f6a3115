package routes

import (
	pendingController "github.com/bazaarhub-dev/marketplace-api/controllers/pending"
	productController "github.com/bazaarhub-dev/marketplace-api/controllers/product"
	"github.com/bazaarhub-dev/marketplace-api/middleware"
	"github.com/bazaarhub-dev/marketplace-api/models"
	"github.com/gin-gonic/gin"
)

// SetupProductRoutes registers the public catalog and the vendor submission
// pipeline.
func SetupProductRoutes(r *gin.Engine, deps Deps) {
	products := r.Group("/products")
	{
		products.GET("", productController.GetProducts(deps.DB))
		products.GET("/:id", productController.GetProductByID(deps.DB))
	}

	pending := r.Group("/preproducts")
	pending.Use(middleware.RequireAuth(deps.Cfg))
	{
		pending.POST("", middleware.RequireRoles(models.RoleVendor), pendingController.SubmitProduct(deps.DB))
		pending.GET("", pendingController.ListPendingProducts(deps.DB))

		approvals := pending.Group("")
		approvals.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleOwner))
		{
			approvals.PUT("/:id/approve", pendingController.ApproveProduct(deps.DB))
			approvals.PUT("/:id/reject", pendingController.RejectProduct(deps.DB))
		}
	}
}
