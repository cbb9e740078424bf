package model_selection

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func makeData(n int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i)*10)
		y.Set(i, 0, float64(i%3))
	}
	return X, y
}

func TestTrainTestSplitSizes(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		testSize  float64
		wantTrain int
		wantTest  int
	}{
		{name: "70/30 of 10", n: 10, testSize: 0.3, wantTrain: 7, wantTest: 3},
		{name: "70/30 of 9 rounds up test", n: 9, testSize: 0.3, wantTrain: 6, wantTest: 3},
		{name: "half of 4", n: 4, testSize: 0.5, wantTrain: 2, wantTest: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			X, y := makeData(tt.n)
			XTrain, XTest, yTrain, yTest, err := TrainTestSplit(X, y, WithTestSize(tt.testSize))
			if err != nil {
				t.Fatalf("TrainTestSplit failed: %v", err)
			}

			if r, _ := XTrain.Dims(); r != tt.wantTrain {
				t.Errorf("XTrain rows = %d, want %d", r, tt.wantTrain)
			}
			if r, _ := XTest.Dims(); r != tt.wantTest {
				t.Errorf("XTest rows = %d, want %d", r, tt.wantTest)
			}
			if r, _ := yTrain.Dims(); r != tt.wantTrain {
				t.Errorf("yTrain rows = %d, want %d", r, tt.wantTrain)
			}
			if r, _ := yTest.Dims(); r != tt.wantTest {
				t.Errorf("yTest rows = %d, want %d", r, tt.wantTest)
			}
		})
	}
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	X, y := makeData(20)

	XTrain1, _, yTrain1, _, err := TrainTestSplit(X, y, WithSeed(0))
	if err != nil {
		t.Fatalf("first split failed: %v", err)
	}
	XTrain2, _, yTrain2, _, err := TrainTestSplit(X, y, WithSeed(0))
	if err != nil {
		t.Fatalf("second split failed: %v", err)
	}

	if !mat.Equal(XTrain1, XTrain2) {
		t.Error("same seed should produce identical XTrain")
	}
	if !mat.Equal(yTrain1, yTrain2) {
		t.Error("same seed should produce identical yTrain")
	}
}

func TestTrainTestSplitSeedChangesOrder(t *testing.T) {
	X, y := makeData(50)

	XTrain1, _, _, _, err := TrainTestSplit(X, y, WithSeed(0))
	if err != nil {
		t.Fatalf("split with seed 0 failed: %v", err)
	}
	XTrain2, _, _, _, err := TrainTestSplit(X, y, WithSeed(1))
	if err != nil {
		t.Fatalf("split with seed 1 failed: %v", err)
	}

	if mat.Equal(XTrain1, XTrain2) {
		t.Error("different seeds should produce different splits")
	}
}

func TestTrainTestSplitRowsStayAligned(t *testing.T) {
	X, y := makeData(30)

	XTrain, XTest, yTrain, yTest, err := TrainTestSplit(X, y)
	if err != nil {
		t.Fatalf("TrainTestSplit failed: %v", err)
	}

	check := func(Xs, ys *mat.Dense) {
		r, _ := Xs.Dims()
		for i := 0; i < r; i++ {
			orig := int(Xs.At(i, 0))
			if ys.At(i, 0) != float64(orig%3) {
				t.Errorf("row %d: X and y no longer aligned", i)
			}
		}
	}
	check(XTrain, yTrain)
	check(XTest, yTest)
}

func TestTrainTestSplitNoShuffle(t *testing.T) {
	X, y := makeData(10)

	XTrain, XTest, _, _, err := TrainTestSplit(X, y, WithShuffle(false))
	if err != nil {
		t.Fatalf("TrainTestSplit failed: %v", err)
	}

	if XTrain.At(0, 0) != 0 {
		t.Errorf("without shuffle, train should start at row 0, got %v", XTrain.At(0, 0))
	}
	if XTest.At(0, 0) != 7 {
		t.Errorf("without shuffle, test should start at row 7, got %v", XTest.At(0, 0))
	}
}

func TestTrainTestSplitInvalidInput(t *testing.T) {
	X, y := makeData(10)

	tests := []struct {
		name string
		opts []SplitOption
	}{
		{name: "test_size zero", opts: []SplitOption{WithTestSize(0)}},
		{name: "test_size one", opts: []SplitOption{WithTestSize(1)}},
		{name: "test_size negative", opts: []SplitOption{WithTestSize(-0.5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, _, err := TrainTestSplit(X, y, tt.opts...); err == nil {
				t.Error("expected an error")
			}
		})
	}

	yShort := mat.NewDense(5, 1, nil)
	if _, _, _, _, err := TrainTestSplit(X, yShort); err == nil {
		t.Error("mismatched row counts should return an error")
	}
}
