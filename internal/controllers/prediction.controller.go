package controllers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"strokify/internal/ml"
	"strokify/internal/models"
	"strokify/internal/repository"
	"strokify/internal/risk"

	"github.com/gin-gonic/gin"
)

type PredictionController struct {
	repo  repository.PredictionRepository
	model ml.Predictor
}

func NewPredictionController(repo repository.PredictionRepository, model ml.Predictor) *PredictionController {
	return &PredictionController{
		repo:  repo,
		model: model,
	}
}

// Predict godoc
// @Summary Predict stroke risk for a patient record
// @Description Run the trained pipeline on a raw patient record, derive risk factors and persist the result
// @Tags prediction
// @Accept json
// @Produce json
// @Success 200 {object} models.PredictionResponse "Prediction result"
// @Failure 400 {object} map[string]interface{} "Invalid patient record"
// @Failure 500 {object} map[string]interface{} "Prediction failed"
// @Router /predict [post]
func (pc *PredictionController) Predict(c *gin.Context) {
	var record models.PatientRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid patient record: " + err.Error(),
		})
		return
	}

	label, probability, err := pc.model.Predict(&record)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Prediction failed: " + err.Error(),
		})
		return
	}

	strokeProb := probability.Stroke
	riskLevel := risk.LevelForProbability(strokeProb)
	confidence := probability.NoStroke
	if strokeProb > confidence {
		confidence = strokeProb
	}

	factors := risk.AnalyzeFactors(&record)

	response := models.PredictionResponse{
		Prediction:      label,
		Probability:     probability,
		RiskLevel:       riskLevel,
		Confidence:      confidence * 100,
		RiskFactors:     risk.Reports(factors),
		Interpretation:  risk.Interpretation(strokeProb),
		Recommendations: risk.Recommendations(strokeProb, factors),
	}

	now := time.Now()
	patientID := record.PatientID
	if patientID == "" {
		patientID = "PATIENT_" + now.Format("20060102150405")
	}
	response.PatientID = patientID

	stored := buildStoredPrediction(&record, patientID, now, label, probability, riskLevel, confidence*100, factors)
	if err := pc.repo.SavePrediction(stored); err != nil {
		// Inference availability is not coupled to store availability: the
		// caller still gets the prediction, flagged as unsaved.
		log.Printf("Failed to save prediction for %s: %v", patientID, err)
		response.SavedToDatabase = false
		c.JSON(http.StatusOK, response)
		return
	}

	response.PredictionID = stored.ID
	response.SavedToDatabase = true
	c.JSON(http.StatusOK, response)
}

func buildStoredPrediction(
	record *models.PatientRecord,
	patientID string,
	timestamp time.Time,
	label int,
	probability models.Probability,
	riskLevel string,
	confidence float64,
	factors []risk.Factor,
) *models.Prediction {
	hypertension := 0
	if record.HasHypertension() {
		hypertension = 1
	}
	heartDisease := 0
	if record.HasHeartDisease() {
		heartDisease = 1
	}

	stored := &models.Prediction{
		PatientID:           patientID,
		Timestamp:           timestamp,
		Gender:              record.Gender,
		Age:                 record.AgeValue(),
		Hypertension:        hypertension,
		HeartDisease:        heartDisease,
		EverMarried:         record.EverMarried,
		WorkType:            record.WorkType,
		ResidenceType:       record.ResidenceType,
		AvgGlucoseLevel:     record.GlucoseValue(),
		BMI:                 record.BMI,
		SmokingStatus:       record.SmokingStatus,
		Outcome:             label,
		StrokeProbability:   probability.Stroke,
		NoStrokeProbability: probability.NoStroke,
		RiskLevel:           riskLevel,
		Confidence:          confidence,
		Notes:               record.Notes,
	}
	for _, f := range factors {
		stored.RiskFactors = append(stored.RiskFactors, models.RiskFactor{
			FactorName:   f.Name,
			FactorValue:  f.NumericValue,
			Contribution: f.Contribution,
		})
	}
	return stored
}

// GetHistory godoc
// @Summary Get all stored predictions
// @Description Retrieve the full prediction log, newest first
// @Tags prediction
// @Produce json
// @Success 200 {object} map[string]interface{} "Prediction history retrieved successfully"
// @Failure 500 {object} map[string]interface{} "Failed to retrieve prediction history"
// @Router /history [get]
func (pc *PredictionController) GetHistory(c *gin.Context) {
	predictions, err := pc.repo.GetAllPredictions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve prediction history",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Prediction history retrieved successfully",
		"data":    predictions,
	})
}

// GetPatientPredictions godoc
// @Summary Get predictions for one patient
// @Description Retrieve all stored predictions for a patient id, newest first
// @Tags prediction
// @Produce json
// @Param patient_id path string true "Patient ID"
// @Success 200 {object} map[string]interface{} "Patient predictions retrieved successfully"
// @Failure 404 {object} map[string]interface{} "No predictions for patient"
// @Router /patient/{patient_id} [get]
func (pc *PredictionController) GetPatientPredictions(c *gin.Context) {
	patientID := c.Param("patient_id")

	predictions, err := pc.repo.GetPredictionsByPatientID(patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve patient predictions",
			"error":   err.Error(),
		})
		return
	}
	if len(predictions) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "No predictions found for patient",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Patient predictions retrieved successfully",
		"data":    predictions,
	})
}

// DeletePrediction godoc
// @Summary Delete a prediction
// @Description Delete a prediction and its risk factor rows by ID
// @Tags prediction
// @Produce json
// @Param id path int true "Prediction ID"
// @Success 200 {object} map[string]interface{} "Prediction deleted successfully"
// @Failure 400 {object} map[string]interface{} "Invalid prediction ID"
// @Failure 404 {object} map[string]interface{} "Prediction not found"
// @Router /prediction/{id} [delete]
func (pc *PredictionController) DeletePrediction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid prediction ID",
			"error":   "ID must be a valid positive integer",
		})
		return
	}

	if _, err := pc.repo.GetPredictionByID(uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Prediction not found",
		})
		return
	}

	if err := pc.repo.DeletePrediction(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete prediction",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Prediction deleted successfully",
	})
}
