// Package risk holds the rule-based scoring shared by the write path
// (per-prediction factor analysis) and the read path (dashboard bucketing),
// so the boundary definitions live in exactly one place.
package risk

// Risk tier labels derived from the predicted stroke probability.
const (
	LevelVeryLow  = "Very Low"
	LevelLow      = "Low"
	LevelMedium   = "Medium"
	LevelHigh     = "High"
	LevelVeryHigh = "Very High"
)

// LevelForProbability maps a stroke probability onto the five ordered tiers.
// The intervals are half-open, so every p in [0,1] lands in exactly one tier.
func LevelForProbability(p float64) string {
	switch {
	case p < 0.2:
		return LevelVeryLow
	case p < 0.4:
		return LevelLow
	case p < 0.6:
		return LevelMedium
	case p < 0.8:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

// AgeGroups lists the dashboard age buckets in display order.
var AgeGroups = []string{"Under 30", "30-49", "50-64", "65+"}

// AgeGroup buckets an age into half-open intervals: [0,30), [30,50),
// [50,65), [65,inf).
func AgeGroup(age float64) string {
	switch {
	case age < 30:
		return "Under 30"
	case age < 50:
		return "30-49"
	case age < 65:
		return "50-64"
	default:
		return "65+"
	}
}

// BMI category keys used by the dashboard payload.
const (
	BMIUnderweight = "underweight"
	BMINormal      = "normal"
	BMIOverweight  = "overweight"
	BMIObese       = "obese"
)

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// Glucose category keys used by the dashboard payload.
const (
	GlucoseNormal      = "normal"
	GlucosePrediabetes = "prediabetes"
	GlucoseDiabetes    = "diabetes"
)

func GlucoseCategory(glucose float64) string {
	switch {
	case glucose < 100:
		return GlucoseNormal
	case glucose < 126:
		return GlucosePrediabetes
	default:
		return GlucoseDiabetes
	}
}
