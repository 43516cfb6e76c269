package repository

import (
	"time"

	"strokify/internal/models"

	"gorm.io/gorm"
)

// LabelCount is one GROUP BY bucket from the predictions table.
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// DateCount is one calendar day of prediction volume.
type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// AgeGenderRow is the minimal projection the aggregation engine buckets in
// application code, keeping the bucket boundaries out of SQL.
type AgeGenderRow struct {
	Gender string
	Age    float64
}

// GenderRiskRow carries per-gender totals. HighRisk here counts by risk
// level only, with no probability filter; the asymmetry against the global
// high-risk count is intentional and matches the upstream aggregation.
type GenderRiskRow struct {
	Gender   string
	Total    int64
	HighRisk int64
}

// PrevalenceRow carries the raw counts behind the risk factor prevalence
// percentages.
type PrevalenceRow struct {
	Total        int64
	Hypertension int64
	HeartDisease int64
	EverSmoked   int64
	Elderly      int64
}

// StatsRepository is the read side of the prediction log: the projections
// and grouped counts the aggregation engine assembles the dashboard from.
type StatsRepository interface {
	CountPredictions() (int64, error)
	CountByGender() ([]LabelCount, error)
	CountByRiskLevel() ([]LabelCount, error)
	CountHighRisk() (int64, error)
	DailyCounts(since time.Time) ([]DateCount, error)
	AgeGenderRows() ([]AgeGenderRow, error)
	GenderRiskRows() ([]GenderRiskRow, error)
	BMIValues() ([]float64, error)
	GlucoseValues() ([]float64, error)
	Prevalence() (*PrevalenceRow, error)
	RecentPredictions(limit int) ([]models.Prediction, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db}
}

func (r *statsRepository) CountPredictions() (int64, error) {
	var count int64
	err := r.db.Model(&models.Prediction{}).Count(&count).Error
	return count, err
}

func (r *statsRepository) CountByGender() ([]LabelCount, error) {
	var counts []LabelCount
	err := r.db.Model(&models.Prediction{}).
		Select("gender AS label, COUNT(*) AS count").
		Group("gender").
		Scan(&counts).Error
	return counts, err
}

func (r *statsRepository) CountByRiskLevel() ([]LabelCount, error) {
	var counts []LabelCount
	err := r.db.Model(&models.Prediction{}).
		Select("risk_level AS label, COUNT(*) AS count").
		Group("risk_level").
		Scan(&counts).Error
	return counts, err
}

// CountHighRisk requires both the tier label and a probability above 0.5.
// A High label with probability <= 0.5 is deliberately excluded.
func (r *statsRepository) CountHighRisk() (int64, error) {
	var count int64
	err := r.db.Model(&models.Prediction{}).
		Where("risk_level IN ? AND stroke_probability > ?", []string{"High", "Very High"}, 0.5).
		Count(&count).Error
	return count, err
}

func (r *statsRepository) DailyCounts(since time.Time) ([]DateCount, error) {
	var counts []DateCount
	err := r.db.Model(&models.Prediction{}).
		Select("DATE(timestamp)::text AS date, COUNT(*) AS count").
		Where("timestamp >= ?", since).
		Group("DATE(timestamp)").
		Order("date").
		Scan(&counts).Error
	return counts, err
}

func (r *statsRepository) AgeGenderRows() ([]AgeGenderRow, error) {
	var rows []AgeGenderRow
	err := r.db.Model(&models.Prediction{}).
		Select("gender, age").
		Scan(&rows).Error
	return rows, err
}

func (r *statsRepository) GenderRiskRows() ([]GenderRiskRow, error) {
	var rows []GenderRiskRow
	err := r.db.Model(&models.Prediction{}).
		Select("gender, COUNT(*) AS total, " +
			"COALESCE(SUM(CASE WHEN risk_level IN ('High', 'Very High') THEN 1 ELSE 0 END), 0) AS high_risk").
		Group("gender").
		Scan(&rows).Error
	return rows, err
}

func (r *statsRepository) BMIValues() ([]float64, error) {
	var values []float64
	err := r.db.Model(&models.Prediction{}).
		Where("bmi IS NOT NULL").
		Pluck("bmi", &values).Error
	return values, err
}

func (r *statsRepository) GlucoseValues() ([]float64, error) {
	var values []float64
	err := r.db.Model(&models.Prediction{}).
		Pluck("avg_glucose_level", &values).Error
	return values, err
}

func (r *statsRepository) Prevalence() (*PrevalenceRow, error) {
	var row PrevalenceRow
	err := r.db.Model(&models.Prediction{}).
		Select("COUNT(*) AS total, " +
			"COALESCE(SUM(hypertension), 0) AS hypertension, " +
			"COALESCE(SUM(heart_disease), 0) AS heart_disease, " +
			"COALESCE(SUM(CASE WHEN smoking_status IN ('smokes', 'formerly smoked') THEN 1 ELSE 0 END), 0) AS ever_smoked, " +
			"COALESCE(SUM(CASE WHEN age > 65 THEN 1 ELSE 0 END), 0) AS elderly").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *statsRepository) RecentPredictions(limit int) ([]models.Prediction, error) {
	var predictions []models.Prediction
	err := r.db.Order("timestamp DESC").Limit(limit).Find(&predictions).Error
	return predictions, err
}
