package routes

import (
	"RealEstateAPI/handlers"
	"RealEstateAPI/middleware"
	"RealEstateAPI/repository"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires every endpoint. Property reads and the contact
// form are public; all mutation goes through the bearer-token
// middleware, and user management additionally requires the admin role.
func RegisterRoutes(e *echo.Echo, db *sqlx.DB, uploadDir string) {
	authController := handlers.NewAuthController(db)
	propertyController := handlers.NewPropertyController(db, uploadDir)
	userController := handlers.NewUserController(db)
	settingsController := handlers.NewSettingsController(db)
	statsController := handlers.NewStatsController(db)
	contactController := handlers.NewContactController()

	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api")

	api.POST("/auth/login", authController.Login)
	api.GET("/properties", propertyController.ListProperties)
	api.GET("/properties/:id", propertyController.GetProperty)
	api.POST("/contact", contactController.SendContact)

	protected := api.Group("", middleware.JWTMiddleware())
	protected.POST("/properties", propertyController.CreateProperty)
	protected.PUT("/properties/:id", propertyController.UpdateProperty)
	protected.DELETE("/properties/:id", propertyController.DeleteProperty)

	protected.GET("/settings", settingsController.ListSettings)
	protected.PUT("/settings/:key", settingsController.UpdateSetting)

	protected.GET("/stats", statsController.GetStats)

	admin := protected.Group("", middleware.AdminRequired(repository.NewUserRepository(db)))
	admin.GET("/users", userController.ListUsers)
	admin.POST("/users", userController.CreateUser)
	admin.PUT("/users/:id", userController.UpdateUser)
	admin.DELETE("/users/:id", userController.DeleteUser)
}
