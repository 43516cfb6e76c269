package repository

import (
	"strokify/internal/models"

	"gorm.io/gorm"
)

type PredictionRepository interface {
	SavePrediction(prediction *models.Prediction) error
	GetAllPredictions() ([]models.Prediction, error)
	GetPredictionsByPatientID(patientID string) ([]models.Prediction, error)
	GetPredictionByID(id uint) (*models.Prediction, error)
	DeletePrediction(id uint) error
}

type predictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db}
}

// SavePrediction inserts the prediction row and its risk factor rows in one
// transaction. The connection skips gorm's default transaction, so the
// explicit wrapper here is what guarantees no parent row is ever committed
// without its children.
func (r *predictionRepository) SavePrediction(prediction *models.Prediction) error {
	factors := prediction.RiskFactors
	prediction.RiskFactors = nil

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(prediction).Error; err != nil {
			return err
		}
		for i := range factors {
			factors[i].PredictionID = prediction.ID
		}
		if len(factors) > 0 {
			if err := tx.Create(&factors).Error; err != nil {
				return err
			}
		}
		return nil
	})

	prediction.RiskFactors = factors
	return err
}

func (r *predictionRepository) GetAllPredictions() ([]models.Prediction, error) {
	var predictions []models.Prediction
	err := r.db.Order("timestamp DESC").Find(&predictions).Error
	return predictions, err
}

func (r *predictionRepository) GetPredictionsByPatientID(patientID string) ([]models.Prediction, error) {
	var predictions []models.Prediction
	err := r.db.Preload("RiskFactors").
		Where("patient_id = ?", patientID).
		Order("timestamp DESC").
		Find(&predictions).Error
	return predictions, err
}

func (r *predictionRepository) GetPredictionByID(id uint) (*models.Prediction, error) {
	var prediction models.Prediction
	err := r.db.Preload("RiskFactors").First(&prediction, id).Error
	if err != nil {
		return nil, err
	}
	return &prediction, nil
}

// DeletePrediction removes one prediction and its factor rows together.
func (r *predictionRepository) DeletePrediction(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prediction_id = ?", id).Delete(&models.RiskFactor{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Prediction{}, id).Error
	})
}
