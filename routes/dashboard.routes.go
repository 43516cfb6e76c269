package routes

import (
	"strokify/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterDashboardRoutes(router *gin.Engine, dashboardController *controllers.DashboardController) {
	router.GET("/dashboard-data", dashboardController.GetDashboardData)
}
