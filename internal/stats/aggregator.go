// Package stats assembles the dashboard payload from the prediction log.
// Every call recomputes from the store; nothing is materialized or cached.
package stats

import (
	"fmt"
	"math"
	"time"

	"strokify/internal/models"
	"strokify/internal/repository"
	"strokify/internal/risk"
)

// trailingWindow is the time-series span for the daily prediction counts.
const trailingWindow = 30 * 24 * time.Hour

// recentLimit is how many rows the recent predictions table shows.
const recentLimit = 10

type AgeGroupCount struct {
	AgeGroup string `json:"age_group"`
	Count    int64  `json:"count"`
}

type GenderRiskStat struct {
	Total          int64   `json:"total"`
	HighRisk       int64   `json:"high_risk"`
	RiskPercentage float64 `json:"risk_percentage"`
}

type BMIStats struct {
	Underweight int64 `json:"underweight"`
	Normal      int64 `json:"normal"`
	Overweight  int64 `json:"overweight"`
	Obese       int64 `json:"obese"`
}

type GlucoseStats struct {
	Normal      int64 `json:"normal"`
	Prediabetes int64 `json:"prediabetes"`
	Diabetes    int64 `json:"diabetes"`
}

// DashboardData is the aggregation response, field for field.
type DashboardData struct {
	TotalPredictions        int64                      `json:"total_predictions"`
	GenderDistribution      map[string]int64           `json:"gender_distribution"`
	RiskDistribution        map[string]int64           `json:"risk_distribution"`
	HighRiskPatients        int64                      `json:"high_risk_patients"`
	PredictionsByDate       []repository.DateCount     `json:"predictions_by_date"`
	AgeDistribution         []AgeGroupCount            `json:"age_distribution"`
	AgeDistributionByGender map[string][]AgeGroupCount `json:"age_distribution_by_gender"`
	GenderRiskStats         map[string]GenderRiskStat  `json:"gender_risk_stats"`
	BMIStats                BMIStats                   `json:"bmi_stats"`
	GlucoseStats            GlucoseStats               `json:"glucose_stats"`
	RiskFactors             map[string]float64         `json:"risk_factors"`
	RecentPredictions       []models.Prediction        `json:"recent_predictions"`
	Timestamp               string                     `json:"timestamp"`
}

// Aggregator computes dashboard statistics from the record store. It is
// stateless; concurrent calls are independent.
type Aggregator struct {
	repo repository.StatsRepository
}

func NewAggregator(repo repository.StatsRepository) *Aggregator {
	return &Aggregator{repo: repo}
}

// DashboardData runs every aggregation query and assembles the payload. Any
// store failure surfaces as a single wrapped error.
func (a *Aggregator) DashboardData() (*DashboardData, error) {
	total, err := a.repo.CountPredictions()
	if err != nil {
		return nil, fmt.Errorf("count predictions: %w", err)
	}

	genderCounts, err := a.repo.CountByGender()
	if err != nil {
		return nil, fmt.Errorf("gender distribution: %w", err)
	}
	genderDist := make(map[string]int64, len(genderCounts))
	for _, c := range genderCounts {
		genderDist[c.Label] = c.Count
	}

	riskCounts, err := a.repo.CountByRiskLevel()
	if err != nil {
		return nil, fmt.Errorf("risk distribution: %w", err)
	}
	riskDist := make(map[string]int64, len(riskCounts))
	for _, c := range riskCounts {
		riskDist[c.Label] = c.Count
	}

	highRisk, err := a.repo.CountHighRisk()
	if err != nil {
		return nil, fmt.Errorf("high risk count: %w", err)
	}

	byDate, err := a.repo.DailyCounts(time.Now().Add(-trailingWindow))
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	if byDate == nil {
		byDate = []repository.DateCount{}
	}

	ageRows, err := a.repo.AgeGenderRows()
	if err != nil {
		return nil, fmt.Errorf("age rows: %w", err)
	}
	ageDist, ageByGender := bucketAges(ageRows)

	genderRows, err := a.repo.GenderRiskRows()
	if err != nil {
		return nil, fmt.Errorf("gender risk stats: %w", err)
	}
	genderStats := genderRiskStats(genderRows)

	bmiValues, err := a.repo.BMIValues()
	if err != nil {
		return nil, fmt.Errorf("bmi values: %w", err)
	}
	bmiStats := bucketBMI(bmiValues)

	glucoseValues, err := a.repo.GlucoseValues()
	if err != nil {
		return nil, fmt.Errorf("glucose values: %w", err)
	}
	glucoseStats := bucketGlucose(glucoseValues)

	prevalence, err := a.repo.Prevalence()
	if err != nil {
		return nil, fmt.Errorf("risk factor prevalence: %w", err)
	}

	recent, err := a.repo.RecentPredictions(recentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent predictions: %w", err)
	}
	if recent == nil {
		recent = []models.Prediction{}
	}

	return &DashboardData{
		TotalPredictions:        total,
		GenderDistribution:      genderDist,
		RiskDistribution:        riskDist,
		HighRiskPatients:        highRisk,
		PredictionsByDate:       byDate,
		AgeDistribution:         ageDist,
		AgeDistributionByGender: ageByGender,
		GenderRiskStats:         genderStats,
		BMIStats:                bmiStats,
		GlucoseStats:            glucoseStats,
		RiskFactors: map[string]float64{
			"Hypertension":    percentage(prevalence.Hypertension, prevalence.Total),
			"Heart Disease":   percentage(prevalence.HeartDisease, prevalence.Total),
			"Smoking History": percentage(prevalence.EverSmoked, prevalence.Total),
			"Age > 65":        percentage(prevalence.Elderly, prevalence.Total),
		},
		RecentPredictions: recent,
		Timestamp:         time.Now().Format(time.RFC3339),
	}, nil
}

// bucketAges counts rows per age group, overall and per gender, using the
// shared bucket boundaries. Groups with no rows are omitted; the remaining
// groups keep their defined order, not lexical order.
func bucketAges(rows []repository.AgeGenderRow) ([]AgeGroupCount, map[string][]AgeGroupCount) {
	overall := map[string]int64{}
	perGender := map[string]map[string]int64{}
	for _, row := range rows {
		group := risk.AgeGroup(row.Age)
		overall[group]++
		if perGender[row.Gender] == nil {
			perGender[row.Gender] = map[string]int64{}
		}
		perGender[row.Gender][group]++
	}

	ordered := func(counts map[string]int64) []AgeGroupCount {
		out := []AgeGroupCount{}
		for _, group := range risk.AgeGroups {
			if counts[group] > 0 {
				out = append(out, AgeGroupCount{AgeGroup: group, Count: counts[group]})
			}
		}
		return out
	}

	byGender := map[string][]AgeGroupCount{}
	for gender, counts := range perGender {
		byGender[gender] = ordered(counts)
	}
	return ordered(overall), byGender
}

// genderRiskStats always reports Male and Female, zero-filled, with the
// percentage guarded against empty genders.
func genderRiskStats(rows []repository.GenderRiskRow) map[string]GenderRiskStat {
	stats := map[string]GenderRiskStat{
		"Male":   {},
		"Female": {},
	}
	for _, row := range rows {
		if _, tracked := stats[row.Gender]; !tracked {
			continue
		}
		pct := 0.0
		if row.Total > 0 {
			pct = round2(float64(row.HighRisk) / float64(row.Total) * 100)
		}
		stats[row.Gender] = GenderRiskStat{
			Total:          row.Total,
			HighRisk:       row.HighRisk,
			RiskPercentage: pct,
		}
	}
	return stats
}

func bucketBMI(values []float64) BMIStats {
	var stats BMIStats
	for _, v := range values {
		switch risk.BMICategory(v) {
		case risk.BMIUnderweight:
			stats.Underweight++
		case risk.BMINormal:
			stats.Normal++
		case risk.BMIOverweight:
			stats.Overweight++
		case risk.BMIObese:
			stats.Obese++
		}
	}
	return stats
}

func bucketGlucose(values []float64) GlucoseStats {
	var stats GlucoseStats
	for _, v := range values {
		switch risk.GlucoseCategory(v) {
		case risk.GlucoseNormal:
			stats.Normal++
		case risk.GlucosePrediabetes:
			stats.Prediabetes++
		case risk.GlucoseDiabetes:
			stats.Diabetes++
		}
	}
	return stats
}

// percentage returns 100*count/total rounded to one decimal, and 0 when the
// store is empty.
func percentage(count, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
