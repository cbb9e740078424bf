package neural

import (
	"testing"
	"time"
)

func TestEarlyStoppingMinimize(t *testing.T) {
	cb := EarlyStopping(2, "val_loss", true)
	env := &CallbackEnv{EvalResults: map[string]float64{}}

	losses := []float64{1.0, 0.8, 0.9, 0.85, 0.9}
	for epoch, loss := range losses {
		env.Epoch = epoch + 1
		env.EvalResults["val_loss"] = loss
		if err := cb(env); err != nil {
			t.Fatalf("callback failed: %v", err)
		}
	}

	// Best at epoch 2, no improvement for epochs 3-4 → stop with patience 2
	if !env.StopTraining {
		t.Error("early stopping should have triggered")
	}
}

func TestEarlyStoppingMaximize(t *testing.T) {
	cb := EarlyStopping(3, "val_accuracy", false)
	env := &CallbackEnv{EvalResults: map[string]float64{}}

	accs := []float64{0.4, 0.5, 0.6, 0.7, 0.8}
	for epoch, acc := range accs {
		env.Epoch = epoch + 1
		env.EvalResults["val_accuracy"] = acc
		if err := cb(env); err != nil {
			t.Fatalf("callback failed: %v", err)
		}
	}

	if env.StopTraining {
		t.Error("early stopping should not trigger while the metric improves")
	}
}

func TestEarlyStoppingMissingMetric(t *testing.T) {
	cb := EarlyStopping(1, "val_loss", true)
	env := &CallbackEnv{EvalResults: map[string]float64{"loss": 1.0}}

	for epoch := 1; epoch <= 5; epoch++ {
		env.Epoch = epoch
		if err := cb(env); err != nil {
			t.Fatalf("callback failed: %v", err)
		}
	}
	if env.StopTraining {
		t.Error("a missing metric should never trigger early stopping")
	}
}

func TestRecordEvaluation(t *testing.T) {
	var history map[string][]float64
	cb := RecordEvaluation(&history)

	env := &CallbackEnv{EvalResults: map[string]float64{"loss": 0.5}}
	for epoch := 1; epoch <= 3; epoch++ {
		env.Epoch = epoch
		env.EvalResults["loss"] = 0.5 / float64(epoch)
		if err := cb(env); err != nil {
			t.Fatalf("callback failed: %v", err)
		}
	}

	if len(history["loss"]) != 3 {
		t.Fatalf("recorded %d loss values, want 3", len(history["loss"]))
	}
	if history["loss"][2] >= history["loss"][0] {
		t.Error("recorded losses should follow the callback inputs")
	}
}

func TestTimeLimit(t *testing.T) {
	cb := TimeLimit(time.Nanosecond)
	env := &CallbackEnv{EvalResults: map[string]float64{}}

	time.Sleep(time.Millisecond)
	env.Epoch = 1
	if err := cb(env); err != nil {
		t.Fatalf("callback failed: %v", err)
	}
	if !env.StopTraining {
		t.Error("time limit should have triggered")
	}
}

func TestCallbackListShouldStop(t *testing.T) {
	stopper := func(env *CallbackEnv) error {
		env.StopTraining = true
		return nil
	}

	cl := NewCallbackList(stopper)
	if err := cl.AfterEpoch(1, 10, nil, map[string]float64{}); err != nil {
		t.Fatalf("AfterEpoch failed: %v", err)
	}
	if !cl.ShouldStop() {
		t.Error("ShouldStop should report the callback's stop request")
	}
}
