package pipeline

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/pengo/pkg/errors"
)

// Config is the training pipeline's configuration model.
type Config struct {
	Dataset  DatasetConfig  `yaml:"dataset"`
	Model    ModelConfig    `yaml:"model"`
	Training TrainingConfig `yaml:"training"`
	Output   OutputConfig   `yaml:"output"`
	Tracking TrackingConfig `yaml:"tracking"`
}

type DatasetConfig struct {
	// Path to the penguin CSV file
	Path string `yaml:"path"`
	// Number of oversampling passes; 2 quadruples the row count
	OversamplePasses int `yaml:"oversamplePasses"`
	// Fraction of samples held out for validation
	TestSize float64 `yaml:"testSize"`
	// Seed for the train/test shuffle
	SplitSeed int64 `yaml:"splitSeed"`
}

type ModelConfig struct {
	// Widths of the hidden layers
	HiddenLayerSizes []int `yaml:"hiddenLayerSizes"`
	// Seed for weight initialization and epoch shuffling
	RandomState int64 `yaml:"randomState"`
}

type TrainingConfig struct {
	Epochs       int     `yaml:"epochs"`
	BatchSize    int     `yaml:"batchSize"`
	LearningRate float64 `yaml:"learningRate"`
}

type OutputConfig struct {
	// Where the trained model JSON is written
	ModelPath string `yaml:"modelPath"`
	// Directory for training curve and confusion matrix PNGs;
	// empty disables plotting
	PlotsDir string `yaml:"plotsDir"`
}

type TrackingConfig struct {
	// Path of the experiment tracking SQLite database;
	// empty disables tracking
	DBPath string `yaml:"dbPath"`
	// Run name recorded in the tracking database
	RunName string `yaml:"runName"`
}

// DefaultConfig returns the notebook-equivalent pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Dataset: DatasetConfig{
			Path:             "penguins.csv",
			OversamplePasses: 2,
			TestSize:         0.3,
			SplitSeed:        0,
		},
		Model: ModelConfig{
			HiddenLayerSizes: []int{10, 10},
			RandomState:      0,
		},
		Training: TrainingConfig{
			Epochs:       50,
			BatchSize:    10,
			LearningRate: 0.001,
		},
		Output: OutputConfig{
			ModelPath: "penguin_model.json",
			PlotsDir:  "plots",
		},
		Tracking: TrackingConfig{
			RunName: "penguin-train",
		},
	}
}

// LoadConfig reads a YAML pipeline configuration from path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to path as YAML, creating parent
// directories as needed.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create config directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write config %s", path)
	}
	return nil
}

// Validate checks the configuration for obviously invalid values.
func (c Config) Validate() error {
	if c.Dataset.Path == "" {
		return errors.NewValidationError("dataset.path", "must not be empty", c.Dataset.Path)
	}
	if c.Dataset.OversamplePasses < 0 {
		return errors.NewValidationError("dataset.oversamplePasses", "must not be negative", c.Dataset.OversamplePasses)
	}
	if c.Dataset.TestSize <= 0 || c.Dataset.TestSize >= 1 {
		return errors.NewValidationError("dataset.testSize", "must be between 0 and 1 exclusive", c.Dataset.TestSize)
	}
	if len(c.Model.HiddenLayerSizes) == 0 {
		return errors.NewValidationError("model.hiddenLayerSizes", "must name at least one layer", c.Model.HiddenLayerSizes)
	}
	for _, size := range c.Model.HiddenLayerSizes {
		if size <= 0 {
			return errors.NewValidationError("model.hiddenLayerSizes", "layer widths must be positive", size)
		}
	}
	if c.Training.Epochs <= 0 {
		return errors.NewValidationError("training.epochs", "must be positive", c.Training.Epochs)
	}
	if c.Training.BatchSize <= 0 {
		return errors.NewValidationError("training.batchSize", "must be positive", c.Training.BatchSize)
	}
	if c.Training.LearningRate <= 0 {
		return errors.NewValidationError("training.learningRate", "must be positive", c.Training.LearningRate)
	}
	if c.Output.ModelPath == "" {
		return errors.NewValidationError("output.modelPath", "must not be empty", c.Output.ModelPath)
	}
	return nil
}
