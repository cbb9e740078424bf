package preprocessing

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestOneHotEncoderFitTransform(t *testing.T) {
	y := mat.NewDense(5, 1, []float64{0, 2, 1, 0, 2})

	encoder := NewOneHotEncoder()
	Y, err := encoder.FitTransform(y)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	r, c := Y.Dims()
	if r != 5 || c != 3 {
		t.Fatalf("got shape (%d, %d), want (5, 3)", r, c)
	}

	want := [][]float64{
		{1, 0, 0},
		{0, 0, 1},
		{0, 1, 0},
		{1, 0, 0},
		{0, 0, 1},
	}
	for i := range want {
		for j := range want[i] {
			if Y.At(i, j) != want[i][j] {
				t.Errorf("Y(%d, %d) = %v, want %v", i, j, Y.At(i, j), want[i][j])
			}
		}
	}
}

func TestOneHotEncoderCategoriesSorted(t *testing.T) {
	y := mat.NewDense(4, 1, []float64{2, 0, 1, 2})

	encoder := NewOneHotEncoder()
	if err := encoder.Fit(y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	want := []int{0, 1, 2}
	if len(encoder.Categories) != len(want) {
		t.Fatalf("got %d categories, want %d", len(encoder.Categories), len(want))
	}
	for i, label := range want {
		if encoder.Categories[i] != label {
			t.Errorf("Categories[%d] = %d, want %d", i, encoder.Categories[i], label)
		}
	}
}

func TestOneHotEncoderUnknownLabel(t *testing.T) {
	encoder := NewOneHotEncoder()
	if err := encoder.Fit(mat.NewDense(2, 1, []float64{0, 1})); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if _, err := encoder.Transform(mat.NewDense(1, 1, []float64{5})); err == nil {
		t.Error("Transform should reject labels unseen during Fit")
	}
}

func TestOneHotEncoderNonIntegerLabel(t *testing.T) {
	encoder := NewOneHotEncoder()
	if err := encoder.Fit(mat.NewDense(2, 1, []float64{0.5, 1})); err == nil {
		t.Error("Fit should reject non-integer labels")
	}
}

func TestOneHotEncoderInverseTransform(t *testing.T) {
	encoder := NewOneHotEncoder()
	y := mat.NewDense(3, 1, []float64{0, 1, 2})
	if _, err := encoder.FitTransform(y); err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	// 確率行列でも最大値の列のラベルが返る
	proba := mat.NewDense(3, 3, []float64{
		0.7, 0.2, 0.1,
		0.1, 0.6, 0.3,
		0.2, 0.2, 0.6,
	})
	labels, err := encoder.InverseTransform(proba)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}

	want := []float64{0, 1, 2}
	for i, w := range want {
		if labels.At(i, 0) != w {
			t.Errorf("labels(%d) = %v, want %v", i, labels.At(i, 0), w)
		}
	}
}

func TestOneHotEncoderInverseTransformTie(t *testing.T) {
	encoder := NewOneHotEncoder()
	if err := encoder.Fit(mat.NewDense(3, 1, []float64{0, 1, 2})); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// 同値の場合は先頭の列が選ばれる
	tied := mat.NewDense(1, 3, []float64{0.4, 0.4, 0.2})
	labels, err := encoder.InverseTransform(tied)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	if labels.At(0, 0) != 0 {
		t.Errorf("tie should resolve to the lowest index, got label %v", labels.At(0, 0))
	}
}
