package neural

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// blobs generates n samples per class around three well separated
// centers in 4-dimensional space.
func blobs(n int, seed int64) (*mat.Dense, *mat.Dense) {
	centers := [][]float64{
		{0, 0, 0, 0},
		{5, 5, 5, 5},
		{-5, 5, -5, 5},
	}

	rng := rand.New(rand.NewSource(seed))
	X := mat.NewDense(3*n, 4, nil)
	y := mat.NewDense(3*n, 1, nil)
	for c, center := range centers {
		for i := 0; i < n; i++ {
			row := c*n + i
			for j := 0; j < 4; j++ {
				X.Set(row, j, center[j]+rng.NormFloat64()*0.5)
			}
			y.Set(row, 0, float64(c))
		}
	}
	return X, y
}

func TestMLPClassifierFitPredict(t *testing.T) {
	X, y := blobs(30, 1)

	clf := NewMLPClassifier(WithEpochs(50), WithBatchSize(10), WithRandomState(0))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if !clf.IsFitted() {
		t.Fatal("classifier should report fitted after Fit")
	}

	acc, err := clf.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if acc <= 1.0/3.0 {
		t.Errorf("training accuracy = %v, want > 1/3", acc)
	}
}

func TestMLPClassifierValidationTracked(t *testing.T) {
	X, y := blobs(20, 2)
	XVal, yVal := blobs(10, 3)

	clf := NewMLPClassifier(WithEpochs(15), WithRandomState(0))
	if err := clf.FitWithValidation(X, y, XVal, yVal); err != nil {
		t.Fatalf("FitWithValidation failed: %v", err)
	}

	history := clf.History()
	if history.Len() != 15 {
		t.Fatalf("history has %d entries, want 15", history.Len())
	}
	for i := 0; i < history.Len(); i++ {
		m := history.At(i)
		if m.Epoch != i+1 {
			t.Errorf("entry %d has epoch %d, want %d", i, m.Epoch, i+1)
		}
		if math.IsNaN(m.Loss) || math.IsNaN(m.ValLoss) {
			t.Errorf("epoch %d recorded NaN loss", m.Epoch)
		}
	}

	last := history.At(history.Len() - 1)
	if last.ValAccuracy <= 1.0/3.0 {
		t.Errorf("final validation accuracy = %v, want > 1/3", last.ValAccuracy)
	}
}

func TestMLPClassifierProbaRowsSumToOne(t *testing.T) {
	X, y := blobs(15, 4)

	clf := NewMLPClassifier(WithEpochs(5), WithRandomState(0))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	proba, err := clf.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}

	n, k := proba.Dims()
	if k != 3 {
		t.Fatalf("proba has %d columns, want 3", k)
	}
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < k; j++ {
			sum += proba.At(i, j)
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("row %d sums to %v, want 1", i, sum)
		}
	}
}

func TestMLPClassifierDeterministic(t *testing.T) {
	X, y := blobs(15, 5)

	train := func() mat.Matrix {
		clf := NewMLPClassifier(WithEpochs(10), WithRandomState(0))
		if err := clf.Fit(X, y); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		proba, err := clf.PredictProba(X)
		if err != nil {
			t.Fatalf("PredictProba failed: %v", err)
		}
		return proba
	}

	first := train()
	second := train()
	if !mat.Equal(first, second) {
		t.Error("same seed should produce identical probabilities")
	}
}

func TestMLPClassifierNotFitted(t *testing.T) {
	clf := NewMLPClassifier()
	X := mat.NewDense(1, 4, []float64{1, 2, 3, 4})

	if _, err := clf.Predict(X); err == nil {
		t.Error("Predict before Fit should return an error")
	}
	if _, err := clf.PredictProba(X); err == nil {
		t.Error("PredictProba before Fit should return an error")
	}
	if _, err := clf.LayerWeights(); err == nil {
		t.Error("LayerWeights before Fit should return an error")
	}
}

func TestMLPClassifierDimensionMismatch(t *testing.T) {
	X, y := blobs(10, 6)

	clf := NewMLPClassifier(WithEpochs(2), WithRandomState(0))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	bad := mat.NewDense(1, 3, []float64{1, 2, 3})
	if _, err := clf.Predict(bad); err == nil {
		t.Error("Predict should reject inputs with the wrong feature count")
	}
}

func TestMLPClassifierClasses(t *testing.T) {
	X, y := blobs(10, 7)

	clf := NewMLPClassifier(WithEpochs(2), WithRandomState(0))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	want := []int{0, 1, 2}
	got := clf.Classes()
	if len(got) != len(want) {
		t.Fatalf("Classes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Classes()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMLPClassifierLayerShapes(t *testing.T) {
	X, y := blobs(10, 8)

	clf := NewMLPClassifier(WithHiddenLayerSizes(10, 10), WithEpochs(1), WithRandomState(0))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	weights, err := clf.LayerWeights()
	if err != nil {
		t.Fatalf("LayerWeights failed: %v", err)
	}

	wantShapes := [][2]int{{4, 10}, {10, 10}, {10, 3}}
	if len(weights) != len(wantShapes) {
		t.Fatalf("got %d layers, want %d", len(weights), len(wantShapes))
	}
	for i, shape := range wantShapes {
		r, c := weights[i].Dims()
		if r != shape[0] || c != shape[1] {
			t.Errorf("layer %d shape = (%d, %d), want (%d, %d)", i, r, c, shape[0], shape[1])
		}
	}
}

func TestMLPClassifierPartialFit(t *testing.T) {
	X, y := blobs(10, 9)

	clf := NewMLPClassifier(WithRandomState(0))
	if err := clf.PartialFit(X, y, []int{0, 1, 2}); err != nil {
		t.Fatalf("first PartialFit failed: %v", err)
	}
	if !clf.IsFitted() {
		t.Fatal("classifier should be fitted after the first PartialFit")
	}

	// Subsequent calls may omit classes
	if err := clf.PartialFit(X, y, nil); err != nil {
		t.Fatalf("second PartialFit failed: %v", err)
	}

	if _, err := clf.PredictProba(X); err != nil {
		t.Errorf("PredictProba after PartialFit failed: %v", err)
	}
}

func TestMLPClassifierPartialFitRequiresClasses(t *testing.T) {
	X, y := blobs(5, 10)

	clf := NewMLPClassifier(WithRandomState(0))
	if err := clf.PartialFit(X, y, nil); err == nil {
		t.Error("first PartialFit without classes should return an error")
	}
}

func TestMLPClassifierPredictClassNames(t *testing.T) {
	X, y := blobs(20, 11)

	clf := NewMLPClassifier(
		WithEpochs(30),
		WithRandomState(0),
		WithClassNames([]string{"Adelie", "Gentoo", "Chinstrap"}),
	)
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	names, err := clf.PredictClassNames(X)
	if err != nil {
		t.Fatalf("PredictClassNames failed: %v", err)
	}
	if len(names) != 60 {
		t.Fatalf("got %d names, want 60", len(names))
	}
	valid := map[string]bool{"Adelie": true, "Gentoo": true, "Chinstrap": true}
	for i, name := range names {
		if !valid[name] {
			t.Errorf("names[%d] = %q, not a known species", i, name)
		}
	}
}

func TestMLPClassifierCallbackStops(t *testing.T) {
	X, y := blobs(10, 12)

	stopAfter := 3
	stopper := func(env *CallbackEnv) error {
		if env.Epoch >= stopAfter {
			env.StopTraining = true
		}
		return nil
	}

	clf := NewMLPClassifier(WithEpochs(50), WithRandomState(0), WithCallbacks(stopper))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if got := clf.History().Len(); got != stopAfter {
		t.Errorf("history has %d entries, want %d", got, stopAfter)
	}
}
