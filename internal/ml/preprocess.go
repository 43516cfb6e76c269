package ml

import (
	"fmt"
	"math"
	"sort"

	"strokify/internal/models"
)

// Column order is fixed: numeric features first (glucose, bmi, age), then
// the one-hot blocks for each categorical column.
var (
	numericColumns     = []string{"avg_glucose_level", "bmi", "age"}
	categoricalColumns = []string{"hypertension", "heart_disease", "ever_married", "work_type", "residence_type", "smoking_status"}
)

// Preprocessor captures the fitted feature transform: per-column medians and
// modes for imputation, Yeo-Johnson parameters with standardization for the
// numeric columns, and the one-hot vocabulary for the categorical columns.
// All state is frozen at fit time and shared read-only across predictions.
type Preprocessor struct {
	Medians    []float64  `json:"medians"`
	Lambdas    []float64  `json:"lambdas"`
	Means      []float64  `json:"means"`
	Stds       []float64  `json:"stds"`
	Modes      []string   `json:"modes"`
	Categories [][]string `json:"categories"`
}

func numericRaw(rec *models.PatientRecord) []float64 {
	bmi := math.NaN()
	if rec.BMI != nil {
		bmi = *rec.BMI
	}
	return []float64{rec.GlucoseValue(), bmi, rec.AgeValue()}
}

func categoricalRaw(rec *models.PatientRecord) []string {
	hypertension := "0"
	if rec.HasHypertension() {
		hypertension = "1"
	}
	heartDisease := "0"
	if rec.HasHeartDisease() {
		heartDisease = "1"
	}
	return []string{hypertension, heartDisease, rec.EverMarried, rec.WorkType, rec.ResidenceType, rec.SmokingStatus}
}

// Fit learns imputation values, power-transform parameters and the category
// vocabulary from the training batch.
func (p *Preprocessor) Fit(records []*models.PatientRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("cannot fit preprocessor on an empty batch")
	}

	numCols := len(numericColumns)
	p.Medians = make([]float64, numCols)
	p.Lambdas = make([]float64, numCols)
	p.Means = make([]float64, numCols)
	p.Stds = make([]float64, numCols)

	for col := 0; col < numCols; col++ {
		values := make([]float64, 0, len(records))
		for _, rec := range records {
			v := numericRaw(rec)[col]
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return fmt.Errorf("numeric column %q has no observed values", numericColumns[col])
		}
		p.Medians[col] = median(values)

		imputed := make([]float64, len(records))
		for i, rec := range records {
			v := numericRaw(rec)[col]
			if math.IsNaN(v) {
				v = p.Medians[col]
			}
			imputed[i] = v
		}

		p.Lambdas[col] = fitYeoJohnsonLambda(imputed)
		transformed := make([]float64, len(imputed))
		for i, v := range imputed {
			transformed[i] = yeoJohnson(v, p.Lambdas[col])
		}
		p.Means[col] = mean(transformed)
		p.Stds[col] = stddev(transformed, p.Means[col])
		if p.Stds[col] == 0 {
			p.Stds[col] = 1
		}
	}

	catCols := len(categoricalColumns)
	p.Modes = make([]string, catCols)
	p.Categories = make([][]string, catCols)
	for col := 0; col < catCols; col++ {
		counts := map[string]int{}
		for _, rec := range records {
			v := categoricalRaw(rec)[col]
			if v != "" {
				counts[v]++
			}
		}
		if len(counts) == 0 {
			return fmt.Errorf("categorical column %q has no observed values", categoricalColumns[col])
		}

		vocabulary := make([]string, 0, len(counts))
		for v := range counts {
			vocabulary = append(vocabulary, v)
		}
		sort.Strings(vocabulary)
		p.Categories[col] = vocabulary

		// Mode with ties broken by the smallest value, matching sorted order.
		best := vocabulary[0]
		for _, v := range vocabulary {
			if counts[v] > counts[best] {
				best = v
			}
		}
		p.Modes[col] = best
	}

	return nil
}

// FeatureCount reports the width of a transformed feature vector.
func (p *Preprocessor) FeatureCount() int {
	n := len(numericColumns)
	for _, vocabulary := range p.Categories {
		n += len(vocabulary)
	}
	return n
}

// Transform maps one record to a model-ready vector using the fitted state.
// Categories unseen at fit time encode as all zeros; missing numeric fields
// take the training median. Never fails on inference input.
func (p *Preprocessor) Transform(rec *models.PatientRecord) []float64 {
	features := make([]float64, 0, p.FeatureCount())

	raw := numericRaw(rec)
	for col := range numericColumns {
		v := raw[col]
		if math.IsNaN(v) {
			v = p.Medians[col]
		}
		t := yeoJohnson(v, p.Lambdas[col])
		features = append(features, (t-p.Means[col])/p.Stds[col])
	}

	cats := categoricalRaw(rec)
	for col, vocabulary := range p.Categories {
		v := cats[col]
		if v == "" {
			v = p.Modes[col]
		}
		for _, known := range vocabulary {
			if v == known {
				features = append(features, 1)
			} else {
				features = append(features, 0)
			}
		}
	}

	return features
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64, m float64) float64 {
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// yeoJohnson applies the power transform for a fixed lambda.
func yeoJohnson(x, lambda float64) float64 {
	const eps = 1e-8
	if x >= 0 {
		if math.Abs(lambda) < eps {
			return math.Log1p(x)
		}
		return (math.Pow(x+1, lambda) - 1) / lambda
	}
	if math.Abs(lambda-2) < eps {
		return -math.Log1p(-x)
	}
	return -(math.Pow(1-x, 2-lambda) - 1) / (2 - lambda)
}

// fitYeoJohnsonLambda maximizes the profile log-likelihood of the transform
// over lambda with a golden-section search on [-5, 5].
func fitYeoJohnsonLambda(values []float64) float64 {
	ll := func(lambda float64) float64 {
		n := float64(len(values))
		transformed := make([]float64, len(values))
		logTerm := 0.0
		for i, v := range values {
			transformed[i] = yeoJohnson(v, lambda)
			sign := 1.0
			if v < 0 {
				sign = -1.0
			}
			logTerm += sign * math.Log1p(math.Abs(v))
		}
		m := mean(transformed)
		variance := 0.0
		for _, t := range transformed {
			d := t - m
			variance += d * d
		}
		variance /= n
		if variance <= 0 || math.IsNaN(variance) || math.IsInf(variance, 0) {
			return math.Inf(-1)
		}
		return -n/2*math.Log(variance) + (lambda-1)*logTerm
	}

	const phi = 0.6180339887498949
	lo, hi := -5.0, 5.0
	a := hi - phi*(hi-lo)
	b := lo + phi*(hi-lo)
	fa, fb := ll(a), ll(b)
	for i := 0; i < 100; i++ {
		if fa > fb {
			hi, b, fb = b, a, fa
			a = hi - phi*(hi-lo)
			fa = ll(a)
		} else {
			lo, a, fa = a, b, fb
			b = lo + phi*(hi-lo)
			fb = ll(b)
		}
	}
	return (lo + hi) / 2
}
