package visualize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/pengo/neural"
)

func sampleHistory() *neural.History {
	h := &neural.History{}
	for epoch := 1; epoch <= 10; epoch++ {
		h.Append(neural.EpochMetrics{
			Epoch:       epoch,
			Loss:        1.0 / float64(epoch),
			Accuracy:    0.4 + 0.05*float64(epoch),
			ValLoss:     1.2 / float64(epoch),
			ValAccuracy: 0.35 + 0.05*float64(epoch),
		})
	}
	return h
}

func TestTrainingCurvesWritesFiles(t *testing.T) {
	dir := t.TempDir()

	paths, err := TrainingCurves(sampleHistory(), dir)
	if err != nil {
		t.Fatalf("TrainingCurves failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("expected plot file %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Errorf("plot file %s is empty", path)
		}
	}
}

func TestTrainingCurvesEmptyHistory(t *testing.T) {
	if _, err := TrainingCurves(&neural.History{}, t.TempDir()); err == nil {
		t.Error("empty history should return an error")
	}
	if _, err := TrainingCurves(nil, t.TempDir()); err == nil {
		t.Error("nil history should return an error")
	}
}

func TestConfusionMatrixPlotWritesFile(t *testing.T) {
	cm := [][]int{
		{12, 1, 0},
		{2, 10, 1},
		{0, 2, 9},
	}
	path := filepath.Join(t.TempDir(), "confusion.png")

	err := ConfusionMatrixPlot(cm, []string{"Adelie", "Gentoo", "Chinstrap"}, path)
	if err != nil {
		t.Fatalf("ConfusionMatrixPlot failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected plot file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}
}

func TestConfusionMatrixPlotValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "confusion.png")

	if err := ConfusionMatrixPlot(nil, nil, path); err == nil {
		t.Error("empty matrix should return an error")
	}

	ragged := [][]int{{1, 2}, {3}}
	if err := ConfusionMatrixPlot(ragged, []string{"a", "b"}, path); err == nil {
		t.Error("ragged matrix should return an error")
	}

	square := [][]int{{1, 0}, {0, 1}}
	if err := ConfusionMatrixPlot(square, []string{"only one"}, path); err == nil {
		t.Error("class name count mismatch should return an error")
	}
}
