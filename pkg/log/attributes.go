// Package log defines standard attribute keys for machine learning operations.
//
// This file contains predefined attribute keys that provide consistency across
// all logging operations in pengo. Using these standard keys enables better
// log analysis, monitoring, and debugging of training workflows.
//
// The keys follow a hierarchical naming convention (e.g., "model.name",
// "data.samples") to enable structured log analysis and filtering.

package log

// Model and Operation Context
// These attributes identify the model type, instance, and operation being performed.
const (
	// ModelNameKey identifies the type of machine learning model.
	// Examples: "MLPClassifier", "StandardScaler", "OneHotEncoder"
	ModelNameKey = "model.name"

	// EstimatorIDKey provides a unique identifier for a specific model instance.
	// Useful for tracking multiple instances of the same model type.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the machine learning operation being performed.
	// Standard values: "fit", "predict", "transform", "fit_transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	// Examples: "neural", "preprocessing", "metrics", "pipeline"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the model lifecycle.
	// Examples: "training", "validation", "inference", "preprocessing"
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of target classes for classification.
	ClassesKey = "data.classes"

	// BatchSizeKey indicates the size of mini-batches used during training.
	BatchSizeKey = "data.batch_size"
)

// Training Metrics
// These attributes capture per-epoch progress and final results.
const (
	// EpochKey records the current epoch number during training.
	EpochKey = "training.epoch"

	// LossKey records the training loss for the current epoch.
	LossKey = "metrics.loss"

	// AccuracyKey records the training accuracy for the current epoch.
	// Range [0.0, 1.0].
	AccuracyKey = "metrics.accuracy"

	// ValLossKey records the validation loss for the current epoch.
	ValLossKey = "metrics.val_loss"

	// ValAccuracyKey records the validation accuracy for the current epoch.
	ValAccuracyKey = "metrics.val_accuracy"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	// Examples: "DIMENSION_MISMATCH", "NOT_FITTED", "NUMERICAL_INSTABILITY"
	ErrorCodeKey = "error.code"

	// SuggestionKey provides helpful suggestions for resolving issues.
	// Examples: "Check input data shape", "Lower the learning rate"
	SuggestionKey = "error.suggestion"
)

// Hyperparameters and Configuration
const (
	// LearningRateKey records the learning rate for gradient-based training.
	LearningRateKey = "hyperparams.learning_rate"

	// EpochsKey records the configured number of training epochs.
	EpochsKey = "hyperparams.epochs"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute value constants for common operations.
// Using these constants ensures consistency across the codebase.
const (
	// Standard ML operations
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"
	OperationPartialFit   = "partial_fit"

	// Standard ML phases
	PhaseTraining      = "training"
	PhaseValidation    = "validation"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"

	// Standard error codes
	ErrorNotFitted            = "NOT_FITTED"
	ErrorDimensionMismatch    = "DIMENSION_MISMATCH"
	ErrorEmptyData            = "EMPTY_DATA"
	ErrorInvalidInput         = "INVALID_INPUT"
	ErrorNumericalInstability = "NUMERICAL_INSTABILITY"
)
