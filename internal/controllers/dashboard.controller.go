package controllers

import (
	"log"
	"net/http"

	"strokify/internal/stats"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	aggregator *stats.Aggregator
}

func NewDashboardController(aggregator *stats.Aggregator) *DashboardController {
	return &DashboardController{aggregator: aggregator}
}

// GetDashboardData godoc
// @Summary Get dashboard statistics
// @Description Compute summary statistics, distributions and recent predictions from the prediction log
// @Tags dashboard
// @Produce json
// @Success 200 {object} stats.DashboardData "Dashboard statistics"
// @Failure 500 {object} map[string]interface{} "Failed to compute dashboard statistics"
// @Router /dashboard-data [get]
func (dc *DashboardController) GetDashboardData(c *gin.Context) {
	data, err := dc.aggregator.DashboardData()
	if err != nil {
		log.Printf("Error computing dashboard data: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, data)
}
