package routes

import (
	userControllers "github.com/bazaarhub-dev/marketplace-api/controllers/user"
	"github.com/bazaarhub-dev/marketplace-api/middleware"
	"github.com/bazaarhub-dev/marketplace-api/models"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers all "/users/*" endpoints.
func SetupUserRoutes(r *gin.Engine, deps Deps) {
	users := r.Group("/users")
	{
		// Public: registration and login
		users.POST("", userControllers.Register(deps.DB, deps.Cfg))
		users.POST("/login", userControllers.Login(deps.DB, deps.Cfg))

		authed := users.Group("")
		authed.Use(middleware.RequireAuth(deps.Cfg))
		{
			authed.GET("/me", userControllers.GetMe(deps.DB))

			admin := authed.Group("")
			admin.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleOwner))
			{
				admin.GET("", userControllers.GetAllUsers(deps.DB))
				admin.DELETE("/:id", userControllers.DeleteUser(deps.DB))
			}
		}
	}
}
