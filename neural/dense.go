package neural

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pengo/pkg/errors"
)

// Dense is a fully connected layer with a weight matrix (in×out),
// a bias row vector (1×out) and an activation function.
type Dense struct {
	W          *mat.Dense
	B          *mat.Dense
	Activation Activation
}

// NewDense creates a layer with Glorot uniform weight initialization
// and zero biases. The rng determines the initial weights, so the same
// seed always produces the same layer.
func NewDense(inDim, outDim int, activation Activation, rng *rand.Rand) *Dense {
	limit := math.Sqrt(6.0 / float64(inDim+outDim))
	data := make([]float64, inDim*outDim)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * limit
	}

	return &Dense{
		W:          mat.NewDense(inDim, outDim, data),
		B:          mat.NewDense(1, outDim, nil),
		Activation: activation,
	}
}

// InDim returns the layer's input dimension.
func (l *Dense) InDim() int {
	r, _ := l.W.Dims()
	return r
}

// OutDim returns the layer's output dimension.
func (l *Dense) OutDim() int {
	_, c := l.W.Dims()
	return c
}

// Forward computes activation(X·W + b) for a batch of rows.
func (l *Dense) Forward(X mat.Matrix) (*mat.Dense, error) {
	n, c := X.Dims()
	if c != l.InDim() {
		return nil, errors.NewDimensionError("Dense.Forward", l.InDim(), c, 1)
	}

	Z := mat.NewDense(n, l.OutDim(), nil)
	Z.Mul(X, l.W)
	for i := 0; i < n; i++ {
		for j := 0; j < l.OutDim(); j++ {
			Z.Set(i, j, Z.At(i, j)+l.B.At(0, j))
		}
	}

	if err := l.Activation.apply(Z); err != nil {
		return nil, err
	}
	return Z, nil
}
