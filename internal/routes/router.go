package routes

import (
	"github.com/remnantdom/ALSDI-school-finance-cloud/internal/handlers"
	"github.com/remnantdom/ALSDI-school-finance-cloud/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all application routes. Login is public; everything
// else sits behind the auth middleware.
func SetupRoutes(r *gin.Engine) {
	RegisterAuthRoutes(r)

	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		authRequired.GET("/logout", handlers.LogoutHandler)
		RegisterAPIRoutes(authRequired)
	}
}
