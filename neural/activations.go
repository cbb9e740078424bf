// Package neural implements feed-forward neural network classifiers
// trained with mini-batch gradient descent.
package neural

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pengo/pkg/errors"
)

// Activation identifies a layer activation function.
type Activation string

const (
	// ReLU is the rectified linear unit, max(0, x).
	ReLU Activation = "relu"

	// Softmax normalizes each row into a probability distribution.
	Softmax Activation = "softmax"

	// Linear applies no transformation.
	Linear Activation = "linear"
)

// ParseActivation converts a name to an Activation.
func ParseActivation(name string) (Activation, error) {
	switch Activation(name) {
	case ReLU, Softmax, Linear:
		return Activation(name), nil
	}
	return "", errors.NewValueError("ParseActivation", "unknown activation "+name)
}

// apply transforms Z in place.
func (a Activation) apply(Z *mat.Dense) error {
	switch a {
	case ReLU:
		applyReLU(Z)
	case Softmax:
		applySoftmax(Z)
	case Linear:
	default:
		return errors.NewValueError("Activation.apply", "unknown activation "+string(a))
	}
	return nil
}

func applyReLU(Z *mat.Dense) {
	r, c := Z.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if Z.At(i, j) < 0 {
				Z.Set(i, j, 0)
			}
		}
	}
}

// applySoftmax normalizes each row. The row maximum is subtracted
// before exponentiation to avoid overflow.
func applySoftmax(Z *mat.Dense) {
	r, c := Z.Dims()
	for i := 0; i < r; i++ {
		max := Z.At(i, 0)
		for j := 1; j < c; j++ {
			if Z.At(i, j) > max {
				max = Z.At(i, j)
			}
		}

		sum := 0.0
		for j := 0; j < c; j++ {
			e := math.Exp(Z.At(i, j) - max)
			Z.Set(i, j, e)
			sum += e
		}
		for j := 0; j < c; j++ {
			Z.Set(i, j, Z.At(i, j)/sum)
		}
	}
}

// reluMask zeroes entries of delta where the corresponding activation
// output was not positive. Used during backpropagation through ReLU.
func reluMask(delta, activated *mat.Dense) {
	r, c := delta.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if activated.At(i, j) <= 0 {
				delta.Set(i, j, 0)
			}
		}
	}
}
