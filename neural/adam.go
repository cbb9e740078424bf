package neural

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pengo/pkg/errors"
)

// Adam implements the Adam optimizer with bias-corrected first and
// second moment estimates.
type Adam struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64

	step int
	m    []*mat.Dense
	v    []*mat.Dense
}

// NewAdam creates an Adam optimizer with the standard defaults
// (beta1 0.9, beta2 0.999, epsilon 1e-8).
func NewAdam(learningRate float64) *Adam {
	return &Adam{
		LearningRate: learningRate,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
	}
}

// Step applies one update to every parameter given its gradient.
// Moment buffers are allocated lazily on the first call; params must
// keep the same shapes across calls.
func (a *Adam) Step(params, grads []*mat.Dense) error {
	if len(params) != len(grads) {
		return errors.NewValueError("Adam.Step", "params and grads must have the same length")
	}

	if a.m == nil {
		a.m = make([]*mat.Dense, len(params))
		a.v = make([]*mat.Dense, len(params))
		for i, p := range params {
			r, c := p.Dims()
			a.m[i] = mat.NewDense(r, c, nil)
			a.v[i] = mat.NewDense(r, c, nil)
		}
	}

	a.step++
	biasCorr1 := 1 - math.Pow(a.Beta1, float64(a.step))
	biasCorr2 := 1 - math.Pow(a.Beta2, float64(a.step))

	for i, p := range params {
		pr, pc := p.Dims()
		gr, gc := grads[i].Dims()
		if gr != pr || gc != pc {
			return errors.NewDimensionError("Adam.Step", pr, gr, 0)
		}

		m, v, g := a.m[i], a.v[i], grads[i]
		for r := 0; r < pr; r++ {
			for c := 0; c < pc; c++ {
				gv := g.At(r, c)
				mv := a.Beta1*m.At(r, c) + (1-a.Beta1)*gv
				vv := a.Beta2*v.At(r, c) + (1-a.Beta2)*gv*gv
				m.Set(r, c, mv)
				v.Set(r, c, vv)

				mHat := mv / biasCorr1
				vHat := vv / biasCorr2
				p.Set(r, c, p.At(r, c)-a.LearningRate*mHat/(math.Sqrt(vHat)+a.Epsilon))
			}
		}
	}

	return nil
}

// Reset clears the optimizer state so the next Step starts from t=1.
func (a *Adam) Reset() {
	a.step = 0
	a.m = nil
	a.v = nil
}

// StepCount returns the number of updates applied so far.
func (a *Adam) StepCount() int {
	return a.step
}
