package models

import (
	"time"
)

// Prediction is one row of the append-only prediction log: the flattened
// patient record plus the classifier output. Rows are never updated.
type Prediction struct {
	ID                  uint         `gorm:"primaryKey" json:"id" example:"1"`
	PatientID           string       `gorm:"index" json:"patient_id" example:"PATIENT_20250101120000"`
	Timestamp           time.Time    `gorm:"index" json:"timestamp" example:"2025-01-01T12:00:00Z"`
	Gender              string       `json:"gender" example:"Female"`
	Age                 float64      `json:"age" example:"67"`
	Hypertension        int          `json:"hypertension" example:"0"`
	HeartDisease        int          `json:"heart_disease" example:"1"`
	EverMarried         string       `json:"ever_married" example:"Yes"`
	WorkType            string       `json:"work_type" example:"Private"`
	ResidenceType       string       `json:"residence_type" example:"Urban"`
	AvgGlucoseLevel     float64      `json:"avg_glucose_level" example:"228.69"`
	BMI                 *float64     `json:"bmi" example:"36.6"`
	SmokingStatus       string       `json:"smoking_status" example:"formerly smoked"`
	Outcome             int          `gorm:"column:prediction" json:"prediction" example:"1"`
	StrokeProbability   float64      `json:"stroke_probability" example:"0.82"`
	NoStrokeProbability float64      `json:"no_stroke_probability" example:"0.18"`
	RiskLevel           string       `json:"risk_level" example:"Very High"`
	Confidence          float64      `json:"confidence" example:"82.0"`
	Notes               string       `gorm:"type:text" json:"notes"`
	RiskFactors         []RiskFactor `gorm:"foreignKey:PredictionID" json:"risk_factors,omitempty"`
}

func (p *Prediction) TableName() string {
	return "predictions"
}

// RiskFactor is one stored factor contribution, a child of exactly one
// prediction and written atomically with it.
type RiskFactor struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	PredictionID uint    `gorm:"index" json:"prediction_id"`
	FactorName   string  `json:"factor_name" example:"Age"`
	FactorValue  float64 `json:"factor_value" example:"67"`
	Contribution float64 `json:"contribution" example:"0.34"`
}

func (f *RiskFactor) TableName() string {
	return "risk_factors"
}

// Probability is the calibrated two-class distribution for one record.
type Probability struct {
	NoStroke float64 `json:"no_stroke"`
	Stroke   float64 `json:"stroke"`
}

// FactorReport is the display form of one analyzed risk factor. Value keeps
// the raw field value (numeric or categorical) for the caller.
type FactorReport struct {
	Name         string      `json:"name"`
	Value        interface{} `json:"value"`
	Contribution float64     `json:"contribution"`
	Unit         string      `json:"unit"`
	RiskCategory string      `json:"risk_category"`
}

// PredictionResponse is the /predict payload.
type PredictionResponse struct {
	Prediction      int            `json:"prediction"`
	Probability     Probability    `json:"probability"`
	RiskLevel       string         `json:"risk_level"`
	Confidence      float64        `json:"confidence"`
	RiskFactors     []FactorReport `json:"risk_factors"`
	Interpretation  string         `json:"interpretation"`
	Recommendations []string       `json:"recommendations"`
	PredictionID    uint           `json:"prediction_id,omitempty"`
	PatientID       string         `json:"patient_id"`
	SavedToDatabase bool           `json:"saved_to_database"`
}
