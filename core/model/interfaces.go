// Package model provides additional interfaces and types for machine learning models.
// This file complements the core interfaces in estimator.go and transformer.go
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns a quality measure of the prediction, e.g. mean accuracy
	// for classifiers.
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// IncrementalLearner is the interface for models that support incremental learning.
type IncrementalLearner interface {
	// PartialFit performs one gradient step on the given mini-batch.
	// classes must list all class labels on the first call; subsequent
	// calls may pass nil.
	PartialFit(X mat.Matrix, y mat.Matrix, classes []int) error
}

// Classifier combines interfaces for classification models.
type Classifier interface {
	Estimator
	Scorer

	// PredictProba returns probability estimates for each class.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the unique classes seen during fitting.
	Classes() []int
}

// ClassifierWithPartialFit combines interfaces for incrementally trainable classifiers.
type ClassifierWithPartialFit interface {
	Classifier
	IncrementalLearner
}

// ParameterGetter is the interface for models that expose their hyperparameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow parameter modification.
type ParameterSetter interface {
	// SetParams sets the model's hyperparameters.
	SetParams(params map[string]interface{}) error
}

// Persistable is the interface for models that can be saved and loaded.
type Persistable interface {
	// Save saves the model to a file.
	Save(path string) error

	// Load loads the model from a file.
	Load(path string) error
}

// WeightExporter is the interface for models that expose their parameters
// as a portable weights document.
type WeightExporter interface {
	// ExportWeights exports the model's parameters.
	ExportWeights() (*NetworkWeights, error)

	// ImportWeights restores the model's parameters from a weights document.
	ImportWeights(weights *NetworkWeights) error
}
