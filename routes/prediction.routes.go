package routes

import (
	"strokify/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterPredictionRoutes(router *gin.Engine, predictionController *controllers.PredictionController) {
	router.POST("/predict", predictionController.Predict)
	router.GET("/history", predictionController.GetHistory)
	router.GET("/patient/:patient_id", predictionController.GetPatientPredictions)
	router.DELETE("/prediction/:id", predictionController.DeletePrediction)
}
