package neural

import (
	"fmt"
	"math"
	"time"
)

// CallbackEnv contains the environment passed to callbacks after each epoch.
type CallbackEnv struct {
	Model        *MLPClassifier
	Epoch        int
	Epochs       int
	BeginTime    time.Time
	EndTime      time.Time
	EvalResults  map[string]float64
	StopTraining bool
}

// Callback is a function invoked during training.
type Callback func(env *CallbackEnv) error

// PrintEvaluation prints evaluation results every period epochs.
func PrintEvaluation(period int) Callback {
	return func(env *CallbackEnv) error {
		if period > 0 && env.Epoch%period == 0 {
			fmt.Printf("[%d/%d] ", env.Epoch, env.Epochs)
			for name, value := range env.EvalResults {
				fmt.Printf("%s: %.6f ", name, value)
			}
			fmt.Println()
		}
		return nil
	}
}

// RecordEvaluation records evaluation history into the given map.
func RecordEvaluation(history *map[string][]float64) Callback {
	return func(env *CallbackEnv) error {
		if *history == nil {
			*history = make(map[string][]float64)
		}
		for name, value := range env.EvalResults {
			(*history)[name] = append((*history)[name], value)
		}
		return nil
	}
}

// EarlyStopping stops training after patience epochs without improvement
// in the given metric.
func EarlyStopping(patience int, metric string, minimize bool) Callback {
	bestScore := math.Inf(1)
	if !minimize {
		bestScore = math.Inf(-1)
	}
	bestEpoch := 0
	epochsNoImprove := 0

	return func(env *CallbackEnv) error {
		value, exists := env.EvalResults[metric]
		if !exists {
			return nil
		}

		improved := value < bestScore
		if !minimize {
			improved = value > bestScore
		}

		if improved {
			bestScore = value
			bestEpoch = env.Epoch
			epochsNoImprove = 0
		} else {
			epochsNoImprove++
		}

		if epochsNoImprove >= patience {
			fmt.Printf("Early stopping at epoch %d, best epoch was %d with %s = %.6f\n",
				env.Epoch, bestEpoch, metric, bestScore)
			env.StopTraining = true
		}
		return nil
	}
}

// TimeLimit stops training after a specified duration.
func TimeLimit(maxDuration time.Duration) Callback {
	startTime := time.Now()
	return func(env *CallbackEnv) error {
		if time.Since(startTime) > maxDuration {
			fmt.Printf("Time limit reached at epoch %d\n", env.Epoch)
			env.StopTraining = true
		}
		return nil
	}
}

// CallbackList manages multiple callbacks.
type CallbackList struct {
	callbacks []Callback
	env       *CallbackEnv
}

// NewCallbackList creates a new callback list.
func NewCallbackList(callbacks ...Callback) *CallbackList {
	return &CallbackList{
		callbacks: callbacks,
		env: &CallbackEnv{
			EvalResults: make(map[string]float64),
		},
	}
}

// AfterEpoch calls every callback with the epoch's results.
func (cl *CallbackList) AfterEpoch(epoch, epochs int, model *MLPClassifier, evalResults map[string]float64) error {
	cl.env.Epoch = epoch
	cl.env.Epochs = epochs
	cl.env.Model = model
	cl.env.EndTime = time.Now()
	cl.env.EvalResults = evalResults

	for _, cb := range cl.callbacks {
		if err := cb(cl.env); err != nil {
			return err
		}
	}
	return nil
}

// ShouldStop returns whether a callback requested training to stop.
func (cl *CallbackList) ShouldStop() bool {
	return cl.env.StopTraining
}
