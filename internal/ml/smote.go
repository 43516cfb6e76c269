package ml

import (
	"math"
	"math/rand"
	"sort"
)

// resampler oversamples the minority class by interpolating between nearest
// same-class neighbors (SMOTE). Training-time only; deterministic for a
// fixed seed.
type resampler struct {
	k   int
	rng *rand.Rand
}

func newResampler(k int, seed int64) *resampler {
	return &resampler{k: k, rng: rand.New(rand.NewSource(seed))}
}

// Resample appends synthetic minority samples until both classes have the
// same count. The input slices are not modified.
func (s *resampler) Resample(X [][]float64, y []int) ([][]float64, []int) {
	var minorityIdx, majorityIdx []int
	for i, label := range y {
		if label == 1 {
			minorityIdx = append(minorityIdx, i)
		} else {
			majorityIdx = append(majorityIdx, i)
		}
	}
	if len(minorityIdx) > len(majorityIdx) {
		minorityIdx, majorityIdx = majorityIdx, minorityIdx
	}

	outX := append([][]float64(nil), X...)
	outY := append([]int(nil), y...)
	need := len(majorityIdx) - len(minorityIdx)
	if need == 0 || len(minorityIdx) == 0 {
		return outX, outY
	}
	minorityLabel := y[minorityIdx[0]]

	for i := 0; i < need; i++ {
		base := minorityIdx[s.rng.Intn(len(minorityIdx))]
		neighbors := s.nearestNeighbors(X, minorityIdx, base)

		var sample []float64
		if len(neighbors) == 0 {
			// Single minority sample: duplicate it.
			sample = append([]float64(nil), X[base]...)
		} else {
			neighbor := neighbors[s.rng.Intn(len(neighbors))]
			gap := s.rng.Float64()
			sample = make([]float64, len(X[base]))
			for d := range sample {
				sample[d] = X[base][d] + gap*(X[neighbor][d]-X[base][d])
			}
		}
		outX = append(outX, sample)
		outY = append(outY, minorityLabel)
	}

	return outX, outY
}

// nearestNeighbors returns up to k nearest same-class indices, excluding the
// base sample itself.
func (s *resampler) nearestNeighbors(X [][]float64, candidates []int, base int) []int {
	type distIdx struct {
		dist float64
		idx  int
	}
	dists := make([]distIdx, 0, len(candidates)-1)
	for _, idx := range candidates {
		if idx == base {
			continue
		}
		dists = append(dists, distIdx{dist: euclidean(X[base], X[idx]), idx: idx})
	}
	sort.Slice(dists, func(i, j int) bool {
		if dists[i].dist != dists[j].dist {
			return dists[i].dist < dists[j].dist
		}
		return dists[i].idx < dists[j].idx
	})

	k := s.k
	if k > len(dists) {
		k = len(dists)
	}
	neighbors := make([]int, k)
	for i := 0; i < k; i++ {
		neighbors[i] = dists[i].idx
	}
	return neighbors
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
