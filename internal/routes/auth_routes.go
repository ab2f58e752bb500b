package routes

import (
	"github.com/remnantdom/ALSDI-school-finance-cloud/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the public authentication routes. Logout
// is not here: it must run behind the auth middleware so the cached user
// data of the session being ended can be dropped.
func RegisterAuthRoutes(r *gin.Engine) {
	r.POST("/login", handlers.LoginHandler)
}
