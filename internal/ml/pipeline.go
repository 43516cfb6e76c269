// Package ml implements the end-to-end inference pipeline: feature
// preprocessing, minority-class resampling at training time and a linear
// discriminant classifier, persisted together as one artifact.
package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"strokify/internal/models"
)

var (
	// ErrUntrainedModel is returned when inference is attempted before fit.
	ErrUntrainedModel = errors.New("model has not been trained")
	// ErrArtifactNotFound is returned when no usable artifact exists at the
	// given path; the caller is expected to train from the source dataset
	// and persist the result before serving.
	ErrArtifactNotFound = errors.New("model artifact not found")
)

// Predictor is the inference surface the request handlers depend on. The
// implementation must be safe for concurrent use after training.
type Predictor interface {
	Predict(rec *models.PatientRecord) (int, models.Probability, error)
}

const defaultNeighbors = 5

// Pipeline composes the preprocessor, resampler and classifier so a raw
// record flows through in one call. Read-only after Fit or Load.
type Pipeline struct {
	pre     *Preprocessor
	clf     *discriminant
	seed    int64
	trained bool
}

func NewPipeline(seed int64) *Pipeline {
	return &Pipeline{
		pre:  &Preprocessor{},
		clf:  &discriminant{},
		seed: seed,
	}
}

// Fit trains all stages end-to-end: fit the preprocessor on the raw batch,
// transform, rebalance classes with SMOTE, then fit the discriminant.
func (p *Pipeline) Fit(records []*models.PatientRecord, labels []int) error {
	if len(records) == 0 || len(records) != len(labels) {
		return fmt.Errorf("training set has %d records and %d labels", len(records), len(labels))
	}

	if err := p.pre.Fit(records); err != nil {
		return fmt.Errorf("preprocessor fit failed: %w", err)
	}

	X := make([][]float64, len(records))
	for i, rec := range records {
		X[i] = p.pre.Transform(rec)
	}

	X, y := newResampler(defaultNeighbors, p.seed).Resample(X, labels)

	if err := p.clf.Fit(X, y); err != nil {
		return fmt.Errorf("classifier fit failed: %w", err)
	}
	p.trained = true
	return nil
}

// Predict runs one record through preprocessing and classification. The
// returned probability pair sums to 1.
func (p *Pipeline) Predict(rec *models.PatientRecord) (int, models.Probability, error) {
	if !p.trained {
		return 0, models.Probability{}, ErrUntrainedModel
	}

	probs, err := p.clf.PredictProba(p.pre.Transform(rec))
	if err != nil {
		return 0, models.Probability{}, err
	}

	label := 0
	if probs[1] > probs[0] {
		label = 1
	}
	return label, models.Probability{NoStroke: probs[0], Stroke: probs[1]}, nil
}

type artifact struct {
	TrainedAt    time.Time     `json:"trained_at"`
	Seed         int64         `json:"seed"`
	Preprocessor *Preprocessor `json:"preprocessor"`
	Classifier   *discriminant `json:"classifier"`
}

// Save serializes the trained pipeline to a single artifact file.
func (p *Pipeline) Save(path string) error {
	if !p.trained {
		return ErrUntrainedModel
	}
	data, err := json.MarshalIndent(artifact{
		TrainedAt:    time.Now().UTC(),
		Seed:         p.seed,
		Preprocessor: p.pre,
		Classifier:   p.clf,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode model artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model artifact: %w", err)
	}
	return nil
}

// Load deserializes a previously trained pipeline. A missing or unreadable
// artifact reports ErrArtifactNotFound so the caller can fall back to
// training from the source dataset.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrArtifactNotFound, path, err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid artifact: %v", ErrArtifactNotFound, path, err)
	}
	if a.Preprocessor == nil || a.Classifier == nil || !a.Classifier.Fitted {
		return nil, fmt.Errorf("%w: %s holds an untrained artifact", ErrArtifactNotFound, path)
	}

	return &Pipeline{
		pre:     a.Preprocessor,
		clf:     a.Classifier,
		seed:    a.Seed,
		trained: true,
	}, nil
}
