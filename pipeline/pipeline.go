// Package pipeline orchestrates the penguin training sequence: load,
// oversample, split, train, evaluate, persist. Each stage hands an
// immutable snapshot to the next; the model is the only mutable value
// and is owned by the trainer.
package pipeline

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pengo/dataset"
	"github.com/YuminosukeSato/pengo/metrics"
	"github.com/YuminosukeSato/pengo/model_selection"
	"github.com/YuminosukeSato/pengo/neural"
	"github.com/YuminosukeSato/pengo/pkg/errors"
	pengolog "github.com/YuminosukeSato/pengo/pkg/log"
	"github.com/YuminosukeSato/pengo/tracking"
	"github.com/YuminosukeSato/pengo/visualize"
)

// Report summarizes a completed pipeline run.
type Report struct {
	// History holds one entry per training epoch.
	History []neural.EpochMetrics

	// ConfusionMatrix over the validation set; rows are true classes,
	// columns are predicted classes.
	ConfusionMatrix [][]int

	// Final metrics of the run.
	TrainAccuracy float64
	ValAccuracy   float64
	ValLoss       float64

	// Artifact locations.
	ModelPath string
	PlotPaths []string

	// TrackingRunID is set when experiment tracking was enabled.
	TrackingRunID int64
}

// Run executes the full training pipeline and returns its report.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := pengolog.GetLoggerWithName("pipeline")

	table, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset loaded",
		pengolog.ComponentKey, "pipeline",
		pengolog.SamplesKey, table.NumRows(),
	)

	table = table.Oversample(cfg.Dataset.OversamplePasses)

	XTrain, XVal, yTrain, yVal, err := model_selection.TrainTestSplit(
		table.X, table.Labels(),
		model_selection.WithTestSize(cfg.Dataset.TestSize),
		model_selection.WithSeed(cfg.Dataset.SplitSeed),
	)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "pipeline cancelled")
	}

	clf := neural.NewMLPClassifier(
		neural.WithHiddenLayerSizes(cfg.Model.HiddenLayerSizes...),
		neural.WithEpochs(cfg.Training.Epochs),
		neural.WithBatchSize(cfg.Training.BatchSize),
		neural.WithLearningRate(cfg.Training.LearningRate),
		neural.WithRandomState(cfg.Model.RandomState),
		neural.WithClassNames(table.ClassNames),
	)
	if err := clf.FitWithValidation(XTrain, yTrain, XVal, yVal); err != nil {
		return nil, err
	}

	report := &Report{History: clf.History().Entries()}

	report.TrainAccuracy, err = clf.Score(XTrain, yTrain)
	if err != nil {
		return nil, err
	}
	report.ValAccuracy, err = clf.Score(XVal, yVal)
	if err != nil {
		return nil, err
	}
	if last, ok := clf.History().Last(); ok {
		report.ValLoss = last.ValLoss
	}

	predVal, err := clf.Predict(XVal)
	if err != nil {
		return nil, err
	}
	yTrueVec, yPredVec, err := labelVectors(yVal, predVal)
	if err != nil {
		return nil, err
	}
	report.ConfusionMatrix, err = metrics.ConfusionMatrix(yTrueVec, yPredVec, dataset.NumClasses)
	if err != nil {
		return nil, err
	}

	if err := clf.Save(cfg.Output.ModelPath); err != nil {
		return nil, err
	}
	report.ModelPath = cfg.Output.ModelPath

	if cfg.Output.PlotsDir != "" {
		paths, err := renderPlots(clf, report, cfg.Output.PlotsDir, table.ClassNames)
		if err != nil {
			// Plots are presentation only; the run's results stand.
			logger.Warn("plot rendering failed", pengolog.ErrAttr(err))
		}
		report.PlotPaths = paths
	}

	if cfg.Tracking.DBPath != "" {
		runID, err := recordRun(ctx, cfg, clf, report)
		if err != nil {
			return nil, err
		}
		report.TrackingRunID = runID
	}

	logger.Info("pipeline finished",
		pengolog.AccuracyKey, report.TrainAccuracy,
		pengolog.ValAccuracyKey, report.ValAccuracy,
	)
	return report, nil
}

// Predict loads a saved model and classifies a single observation,
// returning the predicted class name. The observation must already be
// in the rescaled units of the training data.
func Predict(modelPath string, observation []float64) (string, error) {
	clf, err := neural.LoadMLPClassifier(modelPath)
	if err != nil {
		return "", err
	}

	X := mat.NewDense(1, len(observation), observation)
	names, err := clf.PredictClassNames(X)
	if err != nil {
		return "", err
	}
	return names[0], nil
}

func renderPlots(clf *neural.MLPClassifier, report *Report, dir string, classNames []string) ([]string, error) {
	paths, err := visualize.TrainingCurves(clf.History(), dir)
	if err != nil {
		return nil, err
	}

	cmPath := dir + "/confusion_matrix.png"
	if err := visualize.ConfusionMatrixPlot(report.ConfusionMatrix, classNames, cmPath); err != nil {
		return paths, err
	}
	return append(paths, cmPath), nil
}

func recordRun(ctx context.Context, cfg Config, clf *neural.MLPClassifier, report *Report) (int64, error) {
	store, err := tracking.Open(cfg.Tracking.DBPath)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	name := cfg.Tracking.RunName
	if name == "" {
		name = "penguin-train"
	}

	runID, err := store.StartRun(ctx, name, clf.GetParams())
	if err != nil {
		return 0, err
	}
	for _, m := range report.History {
		if err := store.LogEpoch(ctx, runID, m); err != nil {
			return 0, err
		}
	}
	if err := store.FinishRun(ctx, runID, report.ValLoss, report.ValAccuracy); err != nil {
		return 0, err
	}
	return runID, nil
}

// labelVectors converts two n×1 label matrices into vectors.
func labelVectors(yTrue, yPred mat.Matrix) (*mat.VecDense, *mat.VecDense, error) {
	n, _ := yTrue.Dims()
	pn, _ := yPred.Dims()
	if pn != n {
		return nil, nil, errors.NewDimensionError("pipeline.labelVectors", n, pn, 0)
	}

	trueVec := mat.NewVecDense(n, nil)
	predVec := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		trueVec.SetVec(i, yTrue.At(i, 0))
		predVec.SetVec(i, yPred.At(i, 0))
	}
	return trueVec, predVec, nil
}
