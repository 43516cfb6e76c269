package ml

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"strokify/internal/models"
)

// LoadDataset reads the stroke training CSV. The file carries an "N/A"
// marker for missing bmi and a Residence_type header with the dataset's
// original capitalization.
func LoadDataset(path string) ([]*models.PatientRecord, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	required := []string{"gender", "age", "hypertension", "heart_disease", "ever_married",
		"work_type", "Residence_type", "avg_glucose_level", "bmi", "smoking_status", "stroke"}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, nil, fmt.Errorf("dataset is missing column %q", name)
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read dataset rows: %w", err)
	}

	records := make([]*models.PatientRecord, 0, len(rows))
	labels := make([]int, 0, len(rows))
	for i, row := range rows {
		age, err := strconv.ParseFloat(row[col["age"]], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: bad age %q", i+2, row[col["age"]])
		}
		glucose, err := strconv.ParseFloat(row[col["avg_glucose_level"]], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: bad avg_glucose_level %q", i+2, row[col["avg_glucose_level"]])
		}
		hypertension, err := strconv.Atoi(row[col["hypertension"]])
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: bad hypertension %q", i+2, row[col["hypertension"]])
		}
		heartDisease, err := strconv.Atoi(row[col["heart_disease"]])
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: bad heart_disease %q", i+2, row[col["heart_disease"]])
		}
		stroke, err := strconv.Atoi(row[col["stroke"]])
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: bad stroke label %q", i+2, row[col["stroke"]])
		}

		var bmi *float64
		if raw := row[col["bmi"]]; raw != "" && raw != "N/A" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("row %d: bad bmi %q", i+2, raw)
			}
			bmi = &v
		}

		records = append(records, &models.PatientRecord{
			Gender:          row[col["gender"]],
			Age:             &age,
			Hypertension:    &hypertension,
			HeartDisease:    &heartDisease,
			EverMarried:     row[col["ever_married"]],
			WorkType:        row[col["work_type"]],
			ResidenceType:   row[col["Residence_type"]],
			AvgGlucoseLevel: &glucose,
			BMI:             bmi,
			SmokingStatus:   row[col["smoking_status"]],
		})
		labels = append(labels, stroke)
	}

	return records, labels, nil
}
