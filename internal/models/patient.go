package models

// Smoking status categories as they appear in the stroke dataset.
const (
	SmokingNever    = "never smoked"
	SmokingFormerly = "formerly smoked"
	SmokingCurrent  = "smokes"
	SmokingUnknown  = "Unknown"
)

// PatientRecord is the validated inference input. Required fields are
// pointers so that a missing field fails binding instead of silently
// becoming a zero value; bmi alone is genuinely optional and gets imputed
// by the preprocessor.
type PatientRecord struct {
	PatientID       string   `json:"patient_id"`
	Gender          string   `json:"gender" binding:"required,oneof=Male Female Other"`
	Age             *float64 `json:"age" binding:"required,gte=0"`
	Hypertension    *int     `json:"hypertension" binding:"required,min=0,max=1"`
	HeartDisease    *int     `json:"heart_disease" binding:"required,min=0,max=1"`
	EverMarried     string   `json:"ever_married" binding:"required,oneof=Yes No"`
	WorkType        string   `json:"work_type" binding:"required"`
	ResidenceType   string   `json:"residence_type" binding:"required,oneof=Urban Rural"`
	AvgGlucoseLevel *float64 `json:"avg_glucose_level" binding:"required,gte=0"`
	BMI             *float64 `json:"bmi"`
	SmokingStatus   string   `json:"smoking_status" binding:"required,oneof='never smoked' 'formerly smoked' 'smokes' 'Unknown'"`
	Notes           string   `json:"notes"`
}

func (p *PatientRecord) AgeValue() float64 {
	if p.Age == nil {
		return 0
	}
	return *p.Age
}

func (p *PatientRecord) GlucoseValue() float64 {
	if p.AvgGlucoseLevel == nil {
		return 0
	}
	return *p.AvgGlucoseLevel
}

// BMIValue substitutes 0 for a missing bmi, matching the rule-based risk
// scoring; the ML preprocessor imputes the median instead.
func (p *PatientRecord) BMIValue() float64 {
	if p.BMI == nil {
		return 0
	}
	return *p.BMI
}

func (p *PatientRecord) HasHypertension() bool {
	return p.Hypertension != nil && *p.Hypertension == 1
}

func (p *PatientRecord) HasHeartDisease() bool {
	return p.HeartDisease != nil && *p.HeartDisease == 1
}
