package risk

import (
	"strokify/internal/models"
)

// Factor names in their fixed evaluation order.
const (
	FactorAge          = "Age"
	FactorBMI          = "BMI"
	FactorGlucose      = "Glucose Level"
	FactorHypertension = "Hypertension"
	FactorHeartDisease = "Heart Disease"
	FactorSmoking      = "Smoking Status"
)

// Factor is one independently scored clinical variable. Contribution is an
// explanatory rule-based weight, not a model coefficient; it must never be
// substituted for the classifier's probability.
type Factor struct {
	Name         string
	Value        interface{}
	NumericValue float64
	Contribution float64
	Unit         string
	Category     string
}

// AnalyzeFactors scores the six clinical variables with fixed thresholds.
// Output order is always Age, BMI, Glucose, Hypertension, Heart Disease,
// Smoking. A missing bmi scores as 0.
func AnalyzeFactors(rec *models.PatientRecord) []Factor {
	factors := make([]Factor, 0, 6)

	age := rec.AgeValue()
	ageRisk := 0.0
	if age > 50 {
		ageRisk = (age - 50) * 0.02
	}
	ageCategory := "Low"
	switch {
	case age > 65:
		ageCategory = "High"
	case age > 50:
		ageCategory = "Medium"
	}
	factors = append(factors, Factor{
		Name:         FactorAge,
		Value:        age,
		NumericValue: age,
		Contribution: ageRisk,
		Unit:         "years",
		Category:     ageCategory,
	})

	bmi := rec.BMIValue()
	bmiRisk := 0.0
	bmiCategory := "Normal"
	switch {
	case bmi > 30:
		bmiRisk = 0.15
		bmiCategory = "High"
	case bmi > 25:
		bmiRisk = 0.08
		bmiCategory = "Medium"
	}
	factors = append(factors, Factor{
		Name:         FactorBMI,
		Value:        bmi,
		NumericValue: bmi,
		Contribution: bmiRisk,
		Unit:         "kg/m2",
		Category:     bmiCategory,
	})

	glucose := rec.GlucoseValue()
	glucoseRisk := 0.0
	glucoseCategory := "Normal"
	switch {
	case glucose > 140:
		glucoseRisk = 0.20
		glucoseCategory = "High"
	case glucose > 100:
		glucoseRisk = 0.10
		glucoseCategory = "Medium"
	}
	factors = append(factors, Factor{
		Name:         FactorGlucose,
		Value:        glucose,
		NumericValue: glucose,
		Contribution: glucoseRisk,
		Unit:         "mg/dL",
		Category:     glucoseCategory,
	})

	hypertension := 0
	hypertensionRisk := 0.0
	hypertensionCategory := "Low"
	if rec.HasHypertension() {
		hypertension = 1
		hypertensionRisk = 0.25
		hypertensionCategory = "High"
	}
	factors = append(factors, Factor{
		Name:         FactorHypertension,
		Value:        hypertension,
		NumericValue: float64(hypertension),
		Contribution: hypertensionRisk,
		Unit:         "Yes/No",
		Category:     hypertensionCategory,
	})

	heartDisease := 0
	heartRisk := 0.0
	heartCategory := "Low"
	if rec.HasHeartDisease() {
		heartDisease = 1
		heartRisk = 0.30
		heartCategory = "High"
	}
	factors = append(factors, Factor{
		Name:         FactorHeartDisease,
		Value:        heartDisease,
		NumericValue: float64(heartDisease),
		Contribution: heartRisk,
		Unit:         "Yes/No",
		Category:     heartCategory,
	})

	smokingRisk := 0.0
	smokingCategory := "Low"
	smokingOrdinal := 0.0
	switch rec.SmokingStatus {
	case models.SmokingCurrent:
		smokingRisk = 0.15
		smokingCategory = "High"
		smokingOrdinal = 2
	case models.SmokingFormerly:
		smokingRisk = 0.10
		smokingCategory = "Medium"
		smokingOrdinal = 1
	}
	factors = append(factors, Factor{
		Name:         FactorSmoking,
		Value:        rec.SmokingStatus,
		NumericValue: smokingOrdinal,
		Contribution: smokingRisk,
		Unit:         "Category",
		Category:     smokingCategory,
	})

	return factors
}

// Reports converts analyzed factors into their API display form.
func Reports(factors []Factor) []models.FactorReport {
	reports := make([]models.FactorReport, 0, len(factors))
	for _, f := range factors {
		reports = append(reports, models.FactorReport{
			Name:         f.Name,
			Value:        f.Value,
			Contribution: f.Contribution,
			Unit:         f.Unit,
			RiskCategory: f.Category,
		})
	}
	return reports
}

// Interpretation returns the summary text for a stroke probability.
func Interpretation(strokeProb float64) string {
	switch {
	case strokeProb < 0.2:
		return "Low stroke risk. Maintain healthy lifestyle."
	case strokeProb < 0.4:
		return "Moderate risk. Monitor risk factors regularly."
	case strokeProb < 0.6:
		return "Elevated risk. Consider lifestyle changes and regular checkups."
	case strokeProb < 0.8:
		return "High risk. Consult healthcare provider for preventive measures."
	default:
		return "Very high risk. Immediate medical consultation recommended."
	}
}
