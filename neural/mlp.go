package neural

import (
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pengo/core/model"
	"github.com/YuminosukeSato/pengo/core/parallel"
	"github.com/YuminosukeSato/pengo/pkg/errors"
	pengolog "github.com/YuminosukeSato/pengo/pkg/log"
	"github.com/YuminosukeSato/pengo/preprocessing"
)

// MLPClassifier is a feed-forward neural network classifier trained
// with mini-batch gradient descent and the Adam optimizer.
//
// The default configuration builds input → Dense(10, ReLU) →
// Dense(10, ReLU) → Dense(k, Softmax), where k is the number of
// classes observed during fitting.
type MLPClassifier struct {
	state *model.StateManager

	// Hyperparameters
	hiddenLayerSizes []int
	hiddenActivation Activation
	learningRate     float64
	epochs           int
	batchSize        int
	randomState      int64
	shuffle          bool
	classNames       []string

	// Model parameters
	layers    []*Dense
	classes   []int
	nFeatures int

	// The encoder is a hard dependency resolved at construction.
	encoder   *preprocessing.OneHotEncoder
	optimizer *Adam
	history   *History
	callbacks *CallbackList

	rng    *rand.Rand
	logger pengolog.Logger
}

// MLPOption is a functional option for MLPClassifier.
type MLPOption func(*MLPClassifier)

// WithHiddenLayerSizes sets the widths of the hidden layers.
func WithHiddenLayerSizes(sizes ...int) MLPOption {
	return func(m *MLPClassifier) {
		m.hiddenLayerSizes = sizes
	}
}

// WithHiddenActivation sets the activation of the hidden layers.
func WithHiddenActivation(activation Activation) MLPOption {
	return func(m *MLPClassifier) {
		m.hiddenActivation = activation
	}
}

// WithLearningRate sets the Adam learning rate.
func WithLearningRate(lr float64) MLPOption {
	return func(m *MLPClassifier) {
		m.learningRate = lr
	}
}

// WithEpochs sets the number of training epochs.
func WithEpochs(epochs int) MLPOption {
	return func(m *MLPClassifier) {
		m.epochs = epochs
	}
}

// WithBatchSize sets the mini-batch size.
func WithBatchSize(batchSize int) MLPOption {
	return func(m *MLPClassifier) {
		m.batchSize = batchSize
	}
}

// WithRandomState sets the seed for weight initialization and epoch
// shuffling. The same seed yields a fully deterministic training run.
func WithRandomState(seed int64) MLPOption {
	return func(m *MLPClassifier) {
		m.randomState = seed
	}
}

// WithShuffle controls whether the training set is reshuffled each epoch.
func WithShuffle(shuffle bool) MLPOption {
	return func(m *MLPClassifier) {
		m.shuffle = shuffle
	}
}

// WithClassNames attaches display names to the class labels, indexed
// by label value.
func WithClassNames(names []string) MLPOption {
	return func(m *MLPClassifier) {
		m.classNames = names
	}
}

// WithCallbacks installs callbacks invoked after every epoch.
func WithCallbacks(callbacks ...Callback) MLPOption {
	return func(m *MLPClassifier) {
		m.callbacks = NewCallbackList(callbacks...)
	}
}

// NewMLPClassifier creates a classifier with the given options.
func NewMLPClassifier(opts ...MLPOption) *MLPClassifier {
	m := &MLPClassifier{
		state:            model.NewStateManager(),
		hiddenLayerSizes: []int{10, 10},
		hiddenActivation: ReLU,
		learningRate:     0.001,
		epochs:           50,
		batchSize:        10,
		randomState:      0,
		shuffle:          true,
		encoder:          preprocessing.NewOneHotEncoder(),
		history:          &History{},
		logger:           pengolog.GetLoggerWithName("neural.MLPClassifier"),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.rng = rand.New(rand.NewSource(m.randomState))
	return m
}

// Fit trains the network on X and y (an n×1 integer label column).
func (m *MLPClassifier) Fit(X, y mat.Matrix) error {
	return m.FitWithValidation(X, y, nil, nil)
}

// FitWithValidation trains on the training set and, when a validation
// set is given, runs one read-only evaluation pass over it after each
// epoch. Parameters are never updated from validation data.
func (m *MLPClassifier) FitWithValidation(XTrain, yTrain, XVal, yVal mat.Matrix) (err error) {
	defer errors.Recover(&err, "MLPClassifier.Fit")

	n, features := XTrain.Dims()
	if n == 0 || features == 0 {
		return errors.Wrap(errors.ErrEmptyData, "MLPClassifier.Fit")
	}
	yRows, _ := yTrain.Dims()
	if yRows != n {
		return errors.NewDimensionError("MLPClassifier.Fit", n, yRows, 0)
	}
	if m.batchSize <= 0 {
		return errors.NewValidationError("batch_size", "must be positive", m.batchSize)
	}
	if m.epochs <= 0 {
		return errors.NewValidationError("epochs", "must be positive", m.epochs)
	}

	Y, err := m.encoder.FitTransform(yTrain)
	if err != nil {
		return errors.Wrap(err, "MLPClassifier.Fit: failed to encode labels")
	}
	m.classes = append([]int{}, m.encoder.Categories...)
	m.nFeatures = features

	var YVal mat.Matrix
	if XVal != nil && yVal != nil {
		YVal, err = m.encoder.Transform(yVal)
		if err != nil {
			return errors.Wrap(err, "MLPClassifier.Fit: failed to encode validation labels")
		}
	}

	m.initLayers(features, len(m.classes))
	m.optimizer = NewAdam(m.learningRate)
	m.history = &History{}

	m.logger.Info("training started",
		pengolog.ModelNameKey, "MLPClassifier",
		pengolog.OperationKey, pengolog.OperationFit,
		pengolog.SamplesKey, n,
		pengolog.FeaturesKey, features,
		pengolog.ClassesKey, len(m.classes),
		pengolog.EpochsKey, m.epochs,
		pengolog.BatchSizeKey, m.batchSize,
		pengolog.LearningRateKey, m.learningRate,
		pengolog.RandomSeedKey, m.randomState,
	)

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	for epoch := 1; epoch <= m.epochs; epoch++ {
		begin := time.Now()

		if m.shuffle {
			m.rng.Shuffle(n, func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}

		epochLoss, epochCorrect := 0.0, 0
		for start := 0; start < n; start += m.batchSize {
			end := start + m.batchSize
			if end > n {
				end = n
			}

			XBatch, YBatch := gatherBatch(XTrain, Y, indices[start:end])
			loss, correct, err := m.trainBatch(XBatch, YBatch)
			if err != nil {
				return err
			}
			epochLoss += loss * float64(end-start)
			epochCorrect += correct
		}

		epochLoss /= float64(n)
		if err := errors.CheckScalar("loss_calculation", epochLoss, epoch); err != nil {
			return err
		}

		metrics := EpochMetrics{
			Epoch:    epoch,
			Loss:     epochLoss,
			Accuracy: float64(epochCorrect) / float64(n),
		}
		if YVal != nil {
			valLoss, valAcc, err := m.evaluate(XVal, YVal)
			if err != nil {
				return errors.Wrap(err, "MLPClassifier.Fit: validation pass failed")
			}
			metrics.ValLoss = valLoss
			metrics.ValAccuracy = valAcc
		}
		metrics.Duration = time.Since(begin)
		m.history.Append(metrics)

		m.logger.Debug("epoch finished",
			pengolog.EpochKey, epoch,
			pengolog.LossKey, metrics.Loss,
			pengolog.AccuracyKey, metrics.Accuracy,
			pengolog.ValLossKey, metrics.ValLoss,
			pengolog.ValAccuracyKey, metrics.ValAccuracy,
			pengolog.DurationMsKey, metrics.Duration.Milliseconds(),
		)

		if m.callbacks != nil {
			results := map[string]float64{
				"loss":     metrics.Loss,
				"accuracy": metrics.Accuracy,
			}
			if YVal != nil {
				results["val_loss"] = metrics.ValLoss
				results["val_accuracy"] = metrics.ValAccuracy
			}
			if err := m.callbacks.AfterEpoch(epoch, m.epochs, m, results); err != nil {
				return errors.Wrap(err, "MLPClassifier.Fit: callback failed")
			}
			if m.callbacks.ShouldStop() {
				m.logger.Info("training stopped by callback", pengolog.EpochKey, epoch)
				break
			}
		}
	}

	m.state.SetDimensions(features, n)
	m.state.SetFitted()
	return nil
}

// PartialFit performs a single gradient step on one mini-batch.
// classes must list every class label on the first call.
func (m *MLPClassifier) PartialFit(X, y mat.Matrix, classes []int) (err error) {
	defer errors.Recover(&err, "MLPClassifier.PartialFit")

	n, features := X.Dims()
	if n == 0 {
		return errors.Wrap(errors.ErrEmptyData, "MLPClassifier.PartialFit")
	}

	if !m.state.IsFitted() {
		if len(classes) == 0 {
			return errors.NewValueError("MLPClassifier.PartialFit",
				"classes must be provided on the first call")
		}
		labels := mat.NewDense(len(classes), 1, nil)
		for i, c := range classes {
			labels.Set(i, 0, float64(c))
		}
		if err := m.encoder.Fit(labels); err != nil {
			return errors.Wrap(err, "MLPClassifier.PartialFit")
		}
		m.classes = append([]int{}, m.encoder.Categories...)
		m.nFeatures = features
		m.initLayers(features, len(m.classes))
		m.optimizer = NewAdam(m.learningRate)
		m.history = &History{}
		m.state.SetDimensions(features, 0)
		m.state.SetFitted()
	}

	if features != m.nFeatures {
		return errors.NewDimensionError("MLPClassifier.PartialFit", m.nFeatures, features, 1)
	}

	Y, err := m.encoder.Transform(y)
	if err != nil {
		return errors.Wrap(err, "MLPClassifier.PartialFit")
	}

	_, _, err = m.trainBatch(denseOf(X), Y.(*mat.Dense))
	return err
}

// Predict returns the predicted class label for each row of X as an
// n×1 matrix. Ties in the probability row resolve to the lowest index.
func (m *MLPClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}

	n, k := proba.Dims()
	result := mat.NewDense(n, 1, nil)
	parallel.ParallelizeWithThreshold(n, 1024, func(start, end int) {
		for i := start; i < end; i++ {
			best := 0
			for j := 1; j < k; j++ {
				if proba.At(i, j) > proba.At(i, best) {
					best = j
				}
			}
			result.Set(i, 0, float64(m.classes[best]))
		}
	})
	return result, nil
}

// PredictProba returns the class probability distribution for each row
// of X. Every row sums to 1.
func (m *MLPClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !m.state.IsFitted() {
		return nil, errors.NewNotFittedError("MLPClassifier", "PredictProba")
	}

	_, features := X.Dims()
	if features != m.nFeatures {
		return nil, errors.NewDimensionError("MLPClassifier.PredictProba", m.nFeatures, features, 1)
	}

	activations, err := m.forward(X)
	if err != nil {
		return nil, err
	}
	return activations[len(activations)-1], nil
}

// PredictClassNames returns the display name of the predicted class
// for each row of X. Requires class names to be configured.
func (m *MLPClassifier) PredictClassNames(X mat.Matrix) ([]string, error) {
	if len(m.classNames) == 0 {
		return nil, errors.NewValueError("MLPClassifier.PredictClassNames",
			"no class names configured")
	}

	pred, err := m.Predict(X)
	if err != nil {
		return nil, err
	}

	n, _ := pred.Dims()
	names := make([]string, n)
	for i := 0; i < n; i++ {
		label := int(pred.At(i, 0))
		if label < 0 || label >= len(m.classNames) {
			return nil, errors.NewValueError("MLPClassifier.PredictClassNames",
				"predicted label has no configured name")
		}
		names[i] = m.classNames[label]
	}
	return names, nil
}

// Score returns the mean accuracy of Predict on X against the labels y.
func (m *MLPClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := m.Predict(X)
	if err != nil {
		return 0, err
	}

	n, _ := y.Dims()
	if n == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, "MLPClassifier.Score")
	}

	correct := 0
	for i := 0; i < n; i++ {
		if pred.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// IsFitted returns whether the model has been fitted.
func (m *MLPClassifier) IsFitted() bool {
	return m.state.IsFitted()
}

// Classes returns the class labels observed during fitting.
func (m *MLPClassifier) Classes() []int {
	return append([]int{}, m.classes...)
}

// ClassNames returns the configured class display names.
func (m *MLPClassifier) ClassNames() []string {
	return append([]string{}, m.classNames...)
}

// History returns the per-epoch training history.
func (m *MLPClassifier) History() *History {
	return m.history
}

// LayerWeights returns a copy of each layer's weight matrix, input
// side first.
func (m *MLPClassifier) LayerWeights() ([]*mat.Dense, error) {
	if !m.state.IsFitted() {
		return nil, errors.NewNotFittedError("MLPClassifier", "LayerWeights")
	}

	weights := make([]*mat.Dense, len(m.layers))
	for i, layer := range m.layers {
		weights[i] = mat.DenseCopyOf(layer.W)
	}
	return weights, nil
}

// GetParams returns the model's hyperparameters.
func (m *MLPClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"hidden_layer_sizes": append([]int{}, m.hiddenLayerSizes...),
		"activation":         string(m.hiddenActivation),
		"learning_rate":      m.learningRate,
		"epochs":             m.epochs,
		"batch_size":         m.batchSize,
		"random_state":       m.randomState,
		"shuffle":            m.shuffle,
	}
}

// initLayers builds the layer stack for the given input and output
// dimensions using the model's seeded RNG.
func (m *MLPClassifier) initLayers(inDim, outDim int) {
	m.rng = rand.New(rand.NewSource(m.randomState))

	dims := append([]int{inDim}, m.hiddenLayerSizes...)
	m.layers = make([]*Dense, 0, len(m.hiddenLayerSizes)+1)
	for i := 1; i < len(dims); i++ {
		m.layers = append(m.layers, NewDense(dims[i-1], dims[i], m.hiddenActivation, m.rng))
	}
	m.layers = append(m.layers, NewDense(dims[len(dims)-1], outDim, Softmax, m.rng))
}

// forward runs X through every layer and returns all activations,
// beginning with the input itself.
func (m *MLPClassifier) forward(X mat.Matrix) ([]*mat.Dense, error) {
	activations := make([]*mat.Dense, 0, len(m.layers)+1)
	activations = append(activations, denseOf(X))

	current := activations[0]
	for _, layer := range m.layers {
		next, err := layer.Forward(current)
		if err != nil {
			return nil, err
		}
		activations = append(activations, next)
		current = next
	}
	return activations, nil
}

// trainBatch runs forward and backward passes over one mini-batch and
// applies one Adam update. Returns the mean batch loss and the number
// of correctly classified samples.
func (m *MLPClassifier) trainBatch(XBatch, YBatch *mat.Dense) (loss float64, correct int, err error) {
	activations, err := m.forward(XBatch)
	if err != nil {
		return 0, 0, err
	}

	proba := activations[len(activations)-1]
	b, k := proba.Dims()

	loss = crossEntropy(proba, YBatch)
	correct = countCorrect(proba, YBatch)

	// Softmax with cross-entropy: the output delta is (P - Y) / batch.
	delta := mat.NewDense(b, k, nil)
	delta.Sub(proba, YBatch)
	delta.Scale(1/float64(b), delta)

	params := make([]*mat.Dense, 0, 2*len(m.layers))
	grads := make([]*mat.Dense, 0, 2*len(m.layers))

	for l := len(m.layers) - 1; l >= 0; l-- {
		layer := m.layers[l]
		prev := activations[l]

		gradW := mat.NewDense(layer.InDim(), layer.OutDim(), nil)
		gradW.Mul(prev.T(), delta)

		gradB := mat.NewDense(1, layer.OutDim(), nil)
		for j := 0; j < layer.OutDim(); j++ {
			sum := 0.0
			for i := 0; i < b; i++ {
				sum += delta.At(i, j)
			}
			gradB.Set(0, j, sum)
		}

		params = append(params, layer.W, layer.B)
		grads = append(grads, gradW, gradB)

		if l > 0 {
			prevDelta := mat.NewDense(b, layer.InDim(), nil)
			prevDelta.Mul(delta, layer.W.T())
			if m.layers[l-1].Activation == ReLU {
				reluMask(prevDelta, prev)
			}
			delta = prevDelta
		}
	}

	if err := m.optimizer.Step(params, grads); err != nil {
		return 0, 0, err
	}
	return loss, correct, nil
}

// evaluate runs a read-only forward pass and returns loss and accuracy.
func (m *MLPClassifier) evaluate(X, Y mat.Matrix) (loss, accuracy float64, err error) {
	activations, err := m.forward(X)
	if err != nil {
		return 0, 0, err
	}

	proba := activations[len(activations)-1]
	YDense := denseOf(Y)
	n, _ := proba.Dims()

	return crossEntropy(proba, YDense), float64(countCorrect(proba, YDense)) / float64(n), nil
}

// crossEntropy computes the mean categorical cross-entropy of the
// probability rows against one-hot targets. Probabilities are clipped
// away from zero before the logarithm.
func crossEntropy(proba, Y *mat.Dense) float64 {
	n, k := proba.Dims()
	total := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			if Y.At(i, j) > 0 {
				total -= Y.At(i, j) * errors.StabilizeLog(proba.At(i, j))
			}
		}
	}
	return total / float64(n)
}

// countCorrect counts rows whose probability argmax matches the one-hot
// target. Ties resolve to the lowest index.
func countCorrect(proba, Y *mat.Dense) int {
	n, k := proba.Dims()
	correct := 0
	for i := 0; i < n; i++ {
		best, target := 0, 0
		for j := 1; j < k; j++ {
			if proba.At(i, j) > proba.At(i, best) {
				best = j
			}
			if Y.At(i, j) > Y.At(i, target) {
				target = j
			}
		}
		if best == target {
			correct++
		}
	}
	return correct
}

// gatherBatch copies the selected rows of X and Y into new matrices.
func gatherBatch(X mat.Matrix, Y mat.Matrix, indices []int) (*mat.Dense, *mat.Dense) {
	_, xc := X.Dims()
	_, yc := Y.Dims()

	XBatch := mat.NewDense(len(indices), xc, nil)
	YBatch := mat.NewDense(len(indices), yc, nil)
	for pos, idx := range indices {
		for j := 0; j < xc; j++ {
			XBatch.Set(pos, j, X.At(idx, j))
		}
		for j := 0; j < yc; j++ {
			YBatch.Set(pos, j, Y.At(idx, j))
		}
	}
	return XBatch, YBatch
}

// denseOf returns X itself when it is a *mat.Dense, otherwise a copy.
func denseOf(X mat.Matrix) *mat.Dense {
	if d, ok := X.(*mat.Dense); ok {
		return d
	}
	return mat.DenseCopyOf(X)
}
