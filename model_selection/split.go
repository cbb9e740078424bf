// Package model_selection provides utilities for splitting datasets.
package model_selection

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pengo/pkg/errors"
)

// SplitOption configures TrainTestSplit.
type SplitOption func(*splitConfig)

type splitConfig struct {
	testSize float64
	seed     int64
	shuffle  bool
}

// WithTestSize sets the fraction of samples assigned to the test set.
// Must be in (0, 1). Default is 0.3.
func WithTestSize(size float64) SplitOption {
	return func(c *splitConfig) {
		c.testSize = size
	}
}

// WithSeed sets the random seed used for shuffling. Default is 0.
func WithSeed(seed int64) SplitOption {
	return func(c *splitConfig) {
		c.seed = seed
	}
}

// WithShuffle controls whether samples are shuffled before splitting.
// Default is true; when disabled the split is a plain head/tail cut.
func WithShuffle(shuffle bool) SplitOption {
	return func(c *splitConfig) {
		c.shuffle = shuffle
	}
}

// TrainTestSplit splits X and y into train and test subsets.
//
// Rows of X and y are kept aligned. The shuffled order is fully
// determined by the seed, so the same seed always yields the same
// split. The test set size is ceil(n * testSize).
func TrainTestSplit(X, y mat.Matrix, opts ...SplitOption) (XTrain, XTest, yTrain, yTest *mat.Dense, err error) {
	cfg := &splitConfig{
		testSize: 0.3,
		seed:     0,
		shuffle:  true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.testSize <= 0 || cfg.testSize >= 1 {
		return nil, nil, nil, nil, errors.NewValidationError("test_size",
			"must be between 0 and 1 exclusive", cfg.testSize)
	}

	n, xCols := X.Dims()
	yRows, yCols := y.Dims()
	if n == 0 {
		return nil, nil, nil, nil, errors.Wrap(errors.ErrEmptyData, "TrainTestSplit")
	}
	if yRows != n {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", n, yRows, 0)
	}

	nTest := int(math.Ceil(float64(n) * cfg.testSize))
	if nTest >= n {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit",
			"test_size leaves no training samples")
	}
	nTrain := n - nTest

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if cfg.shuffle {
		rng := rand.New(rand.NewSource(cfg.seed))
		rng.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	XTrain = mat.NewDense(nTrain, xCols, nil)
	XTest = mat.NewDense(nTest, xCols, nil)
	yTrain = mat.NewDense(nTrain, yCols, nil)
	yTest = mat.NewDense(nTest, yCols, nil)

	for pos, idx := range indices {
		if pos < nTrain {
			copyRow(XTrain, pos, X, idx, xCols)
			copyRow(yTrain, pos, y, idx, yCols)
		} else {
			copyRow(XTest, pos-nTrain, X, idx, xCols)
			copyRow(yTest, pos-nTrain, y, idx, yCols)
		}
	}

	return XTrain, XTest, yTrain, yTest, nil
}

func copyRow(dst *mat.Dense, dstRow int, src mat.Matrix, srcRow, cols int) {
	for j := 0; j < cols; j++ {
		dst.Set(dstRow, j, src.At(srcRow, j))
	}
}
