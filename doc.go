// Package pengo provides a compact machine learning toolkit for Go,
// built around a feed-forward neural network classifier for tabular data.
//
// Pengo offers a scikit-learn-like API so that engineers familiar with
// Python's ecosystem can train, evaluate, and deploy small dense networks
// from Go services without leaving the language.
//
// # Features
//
// - Dense feed-forward classifier with Adam and categorical cross-entropy
// - scikit-learn-like API: Fit / Predict / PredictProba / Score
// - Deterministic preprocessing: factor scaling, one-hot encoding, seeded splits
// - Exact JSON model persistence: a reloaded model reproduces its predictions
// - Structured logging and error handling throughout
//
// # Installation
//
// Install pengo using go get:
//
//	go get github.com/YuminosukeSato/pengo
//
// # Quick Start
//
// Training a species classifier on the penguin measurements dataset:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/pengo/dataset"
//	    "github.com/YuminosukeSato/pengo/model_selection"
//	    "github.com/YuminosukeSato/pengo/neural"
//	)
//
//	func main() {
//	    table, err := dataset.Load("penguins.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    table = table.Oversample(2)
//
//	    XTrain, XTest, yTrain, yTest, err := model_selection.TrainTestSplit(
//	        table.X, table.Labels(),
//	        model_selection.WithTestSize(0.3),
//	        model_selection.WithSeed(0),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    clf := neural.NewMLPClassifier(
//	        neural.WithHiddenLayerSizes(10, 10),
//	        neural.WithEpochs(50),
//	        neural.WithBatchSize(10),
//	    )
//	    if err := clf.FitWithValidation(XTrain, yTrain, XTest, yTest); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    acc, _ := clf.Score(XTest, yTest)
//	    fmt.Printf("validation accuracy: %.3f\n", acc)
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - neural: Dense network classifier, Adam optimizer, training history
//   - dataset: Penguin CSV loading, null dropping, rescaling, oversampling
//   - model_selection: Deterministic train/test splitting
//   - preprocessing: Scalers (factor, min-max, standard) and one-hot encoding
//   - metrics: Classification metrics (accuracy, confusion matrix, log loss)
//   - visualize: Training curves and confusion-matrix heat maps
//   - tracking: SQLite-backed experiment tracking
//   - pipeline: End-to-end train/evaluate/persist orchestration
//   - core/model: Core interfaces and base types
//   - core/parallel: Parallel processing utilities
//
// # Persistence
//
// Trained models serialize to a single JSON artifact and reload into a
// fresh process without retraining:
//
//	if err := clf.Save("penguins_model.json"); err != nil {
//	    log.Fatal(err)
//	}
//	loaded, err := neural.LoadMLPClassifier("penguins_model.json")
//
// The artifact carries the architecture, all layer weights and biases,
// class labels, and hyperparameters under a checked format version.
//
// # License
//
// Pengo is released under the MIT License.
package pengo
