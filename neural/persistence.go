package neural

import (
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pengo/core/model"
	"github.com/YuminosukeSato/pengo/pkg/errors"
)

// modelType identifies MLPClassifier artifacts in the weights document.
const modelType = "MLPClassifier"

// ExportWeights exports the fitted network as a portable weights
// document. All values are float64, so a JSON round-trip reconstructs
// the parameters bit for bit.
func (m *MLPClassifier) ExportWeights() (*model.NetworkWeights, error) {
	if !m.state.IsFitted() {
		return nil, errors.NewNotFittedError("MLPClassifier", "ExportWeights")
	}

	nw := &model.NetworkWeights{
		ModelType:       modelType,
		FormatVersion:   model.FormatVersion,
		Layers:          make([]model.LayerWeights, len(m.layers)),
		Classes:         m.Classes(),
		ClassNames:      m.ClassNames(),
		Hyperparameters: m.GetParams(),
		IsFitted:        true,
	}

	for i, layer := range m.layers {
		lw := model.LayerWeights{
			InputDim:   layer.InDim(),
			OutputDim:  layer.OutDim(),
			Activation: string(layer.Activation),
			Weights:    make([][]float64, layer.InDim()),
			Biases:     make([]float64, layer.OutDim()),
		}
		for r := 0; r < layer.InDim(); r++ {
			lw.Weights[r] = make([]float64, layer.OutDim())
			for c := 0; c < layer.OutDim(); c++ {
				lw.Weights[r][c] = layer.W.At(r, c)
			}
		}
		for c := 0; c < layer.OutDim(); c++ {
			lw.Biases[c] = layer.B.At(0, c)
		}
		nw.Layers[i] = lw
	}

	return nw, nil
}

// ImportWeights restores the network parameters from a weights
// document, replacing any fitted state.
func (m *MLPClassifier) ImportWeights(nw *model.NetworkWeights) error {
	if err := nw.Validate(); err != nil {
		return errors.Wrap(err, "MLPClassifier.ImportWeights: invalid weights")
	}
	if nw.ModelType != modelType {
		return errors.NewValueError("MLPClassifier.ImportWeights",
			"weights document is for model type "+nw.ModelType)
	}
	if len(nw.Layers) == 0 {
		return errors.NewValueError("MLPClassifier.ImportWeights", "weights document has no layers")
	}

	layers := make([]*Dense, len(nw.Layers))
	for i, lw := range nw.Layers {
		activation, err := ParseActivation(lw.Activation)
		if err != nil {
			return errors.Wrapf(err, "MLPClassifier.ImportWeights: layer %d", i)
		}

		data := make([]float64, 0, lw.InputDim*lw.OutputDim)
		for _, row := range lw.Weights {
			data = append(data, row...)
		}
		biases := append([]float64{}, lw.Biases...)

		layers[i] = &Dense{
			W:          mat.NewDense(lw.InputDim, lw.OutputDim, data),
			B:          mat.NewDense(1, lw.OutputDim, biases),
			Activation: activation,
		}
	}

	m.layers = layers
	m.nFeatures = nw.Layers[0].InputDim
	m.classes = append([]int{}, nw.Classes...)
	m.classNames = append([]string{}, nw.ClassNames...)

	// Rebuild the encoder so Predict can map outputs back to labels.
	labels := mat.NewDense(len(m.classes), 1, nil)
	for i, c := range m.classes {
		labels.Set(i, 0, float64(c))
	}
	if err := m.encoder.Fit(labels); err != nil {
		return errors.Wrap(err, "MLPClassifier.ImportWeights")
	}

	m.state.SetDimensions(m.nFeatures, 0)
	m.state.SetFitted()
	return nil
}

// Save writes the fitted model to path as a JSON weights document.
func (m *MLPClassifier) Save(path string) error {
	nw, err := m.ExportWeights()
	if err != nil {
		return err
	}

	data, err := nw.ToJSON()
	if err != nil {
		return errors.Wrap(err, "MLPClassifier.Save")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "MLPClassifier.Save: failed to write %s", path)
	}
	return nil
}

// Load restores the model from a JSON weights document at path.
func (m *MLPClassifier) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "MLPClassifier.Load: failed to read %s", path)
	}

	nw := &model.NetworkWeights{}
	if err := nw.FromJSON(data); err != nil {
		return errors.Wrapf(err, "MLPClassifier.Load: malformed weights document %s", path)
	}
	return m.ImportWeights(nw)
}

// LoadMLPClassifier reads a saved model from path. It is usable in a
// process that never trained: the returned classifier predicts without
// any further setup.
func LoadMLPClassifier(path string) (*MLPClassifier, error) {
	m := NewMLPClassifier()
	if err := m.Load(path); err != nil {
		return nil, err
	}
	return m, nil
}
