// internal/routes/api_routes.go
package routes

import (
	"github.com/remnantdom/ALSDI-school-finance-cloud/internal/handlers"
	"github.com/remnantdom/ALSDI-school-finance-cloud/internal/middleware"
	"github.com/remnantdom/ALSDI-school-finance-cloud/models"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes registers every authenticated API route.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	apiGroup := api.Group("/api")
	{
		// --- STUDENT REGISTRY ---
		students := apiGroup.Group("/students")
		{
			students.GET("", handlers.ListStudentsHandler)
			students.POST("", middleware.RequireRole(models.RoleRegistrar), handlers.EnrollStudentHandler)
			students.GET("/:id", handlers.GetStudentHandler)
			students.PUT("/:id", middleware.RequireRole(models.RoleRegistrar), handlers.UpdateStudentHandler)
			students.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), handlers.DeleteStudentHandler)

			students.GET("/:id/financials", handlers.GetFinancialsHandler)
			students.GET("/:id/statement", handlers.StatementHandler)
			students.POST("/:id/payment-plan", handlers.PaymentPlanHandler)
		}

		// --- FEE SCHEDULE ---
		feeSchedule := apiGroup.Group("/fee-schedule")
		{
			feeSchedule.GET("", handlers.GetFeeScheduleHandler)
			feeSchedule.POST("", middleware.RequireRole(models.RoleFinance), handlers.UpdateFeeScheduleHandler)
		}

		// --- PAYMENT LEDGER ---
		payments := apiGroup.Group("/payments")
		{
			payments.GET("", handlers.ListPaymentsHandler)
			payments.POST("", middleware.RequireRole(models.RoleRegistrar, models.RoleFinance), handlers.PostPaymentHandler)
			payments.GET("/export", middleware.RequireRole(models.RoleFinance), handlers.ExportPaymentsHandler)
		}

		// --- STAFF ACCOUNTS ---
		users := apiGroup.Group("/users")
		{
			users.POST("", middleware.RequireRole(models.RoleAdmin), handlers.RegisterHandler)
		}
	}
}
