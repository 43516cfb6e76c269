package ml

import (
	"fmt"
	"math"
)

// discriminant is a two-class linear discriminant: class means with a pooled
// covariance estimate, yielding linear score functions whose softmax is the
// posterior probability pair.
type discriminant struct {
	Fitted  bool        `json:"fitted"`
	Weights [][]float64 `json:"weights"`
	Biases  []float64   `json:"biases"`
}

// Fit estimates class means, the pooled within-class covariance and class
// priors from labeled feature vectors. Labels must be 0 or 1 and both
// classes must be present.
func (d *discriminant) Fit(X [][]float64, y []int) error {
	if len(X) == 0 || len(X) != len(y) {
		return fmt.Errorf("training set has %d samples and %d labels", len(X), len(y))
	}
	dim := len(X[0])

	counts := [2]int{}
	means := [2][]float64{make([]float64, dim), make([]float64, dim)}
	for i, x := range X {
		c := y[i]
		if c != 0 && c != 1 {
			return fmt.Errorf("label %d is not binary", c)
		}
		counts[c]++
		for j, v := range x {
			means[c][j] += v
		}
	}
	if counts[0] == 0 || counts[1] == 0 {
		return fmt.Errorf("both classes must be present in the training set")
	}
	for c := 0; c < 2; c++ {
		for j := range means[c] {
			means[c][j] /= float64(counts[c])
		}
	}

	// Pooled within-class covariance.
	cov := make([][]float64, dim)
	for i := range cov {
		cov[i] = make([]float64, dim)
	}
	for i, x := range X {
		mu := means[y[i]]
		for a := 0; a < dim; a++ {
			da := x[a] - mu[a]
			for b := a; b < dim; b++ {
				cov[a][b] += da * (x[b] - mu[b])
			}
		}
	}
	denom := float64(len(X) - 2)
	if denom < 1 {
		denom = 1
	}
	trace := 0.0
	for a := 0; a < dim; a++ {
		for b := a; b < dim; b++ {
			cov[a][b] /= denom
			cov[b][a] = cov[a][b]
		}
		trace += cov[a][a]
	}

	// Ridge regularization keeps the one-hot blocks invertible.
	ridge := 1e-6 * (trace/float64(dim) + 1)
	for a := 0; a < dim; a++ {
		cov[a][a] += ridge
	}

	inv, err := invert(cov)
	if err != nil {
		return fmt.Errorf("pooled covariance is singular: %w", err)
	}

	d.Weights = make([][]float64, 2)
	d.Biases = make([]float64, 2)
	total := float64(counts[0] + counts[1])
	for c := 0; c < 2; c++ {
		w := matVec(inv, means[c])
		d.Weights[c] = w
		d.Biases[c] = -0.5*dot(means[c], w) + math.Log(float64(counts[c])/total)
	}
	d.Fitted = true
	return nil
}

// PredictProba returns the posterior distribution over {class 0, class 1},
// summing to 1 within floating-point tolerance.
func (d *discriminant) PredictProba(x []float64) ([2]float64, error) {
	if !d.Fitted {
		return [2]float64{}, ErrUntrainedModel
	}

	scores := [2]float64{}
	for c := 0; c < 2; c++ {
		scores[c] = dot(x, d.Weights[c]) + d.Biases[c]
	}

	// Softmax with max subtraction for stability.
	m := math.Max(scores[0], scores[1])
	e0 := math.Exp(scores[0] - m)
	e1 := math.Exp(scores[1] - m)
	sum := e0 + e1
	return [2]float64{e0 / sum, e1 / sum}, nil
}

// Predict returns the argmax class label.
func (d *discriminant) Predict(x []float64) (int, error) {
	probs, err := d.PredictProba(x)
	if err != nil {
		return 0, err
	}
	if probs[1] > probs[0] {
		return 1, nil
	}
	return 0, nil
}

// invert computes a matrix inverse by Gauss-Jordan elimination with partial
// pivoting.
func invert(m [][]float64) ([][]float64, error) {
	n := len(m)
	aug := make([][]float64, n)
	for i := range aug {
		aug[i] = make([]float64, 2*n)
		copy(aug[i], m[i])
		aug[i][n+i] = 1
	}

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(aug[row][col]) > math.Abs(aug[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(aug[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("zero pivot at column %d", col)
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		scale := aug[col][col]
		for j := range aug[col] {
			aug[col][j] /= scale
		}
		for row := 0; row < n; row++ {
			if row == col || aug[row][col] == 0 {
				continue
			}
			factor := aug[row][col]
			for j := range aug[row] {
				aug[row][j] -= factor * aug[col][j]
			}
		}
	}

	inv := make([][]float64, n)
	for i := range inv {
		inv[i] = aug[i][n:]
	}
	return inv, nil
}

func matVec(m [][]float64, v []float64) []float64 {
	out := make([]float64, len(m))
	for i, row := range m {
		out[i] = dot(row, v)
	}
	return out
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
