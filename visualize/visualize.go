// Package visualize renders training diagnostics to PNG files.
// Rendering is presentation-only: a failure here never invalidates the
// training run that produced the data.
package visualize

import (
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/pengo/neural"
	"github.com/YuminosukeSato/pengo/pkg/errors"
)

// TrainingCurves renders the loss and accuracy curves of a training
// history into dir as loss_curve.png and accuracy_curve.png. It
// returns the paths of the written files.
func TrainingCurves(history *neural.History, dir string) ([]string, error) {
	if history == nil || history.Len() == 0 {
		return nil, errors.NewValueError("visualize.TrainingCurves", "empty history")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create plot directory %s", dir)
	}

	entries := history.Entries()
	hasVal := false
	for _, e := range entries {
		if e.ValLoss != 0 || e.ValAccuracy != 0 {
			hasVal = true
			break
		}
	}

	series := func(pick func(neural.EpochMetrics) float64) plotter.XYs {
		xys := make(plotter.XYs, len(entries))
		for i, e := range entries {
			xys[i].X = float64(e.Epoch)
			xys[i].Y = pick(e)
		}
		return xys
	}

	lossPath := filepath.Join(dir, "loss_curve.png")
	lossSeries := map[string]plotter.XYs{
		"train": series(func(e neural.EpochMetrics) float64 { return e.Loss }),
	}
	if hasVal {
		lossSeries["validation"] = series(func(e neural.EpochMetrics) float64 { return e.ValLoss })
	}
	if err := lineChart("Training Loss", "Epoch", "Loss", lossSeries, lossPath); err != nil {
		return nil, err
	}

	accPath := filepath.Join(dir, "accuracy_curve.png")
	accSeries := map[string]plotter.XYs{
		"train": series(func(e neural.EpochMetrics) float64 { return e.Accuracy }),
	}
	if hasVal {
		accSeries["validation"] = series(func(e neural.EpochMetrics) float64 { return e.ValAccuracy })
	}
	if err := lineChart("Training Accuracy", "Epoch", "Accuracy", accSeries, accPath); err != nil {
		return nil, err
	}

	return []string{lossPath, accPath}, nil
}

func lineChart(title, xLabel, yLabel string, series map[string]plotter.XYs, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true

	// Fixed ordering so colors are stable across renders
	names := []string{"train", "validation"}
	colorIdx := 0
	for _, name := range names {
		xys, ok := series[name]
		if !ok {
			continue
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return errors.Wrapf(err, "failed to build %s line", name)
		}
		line.Color = plotutil.Color(colorIdx)
		colorIdx++
		p.Add(line)
		p.Legend.Add(name, line)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save plot %s", path)
	}
	return nil
}

// confusionGrid adapts a confusion matrix to plotter.GridXYZ. Row 0 of
// the matrix (true class 0) is drawn at the top.
type confusionGrid struct {
	cm [][]int
}

func (g confusionGrid) Dims() (c, r int) { return len(g.cm), len(g.cm) }
func (g confusionGrid) X(c int) float64  { return float64(c) }
func (g confusionGrid) Y(r int) float64  { return float64(r) }
func (g confusionGrid) Z(c, r int) float64 {
	// Plot rows grow upward; flip so true class 0 is the top row.
	return float64(g.cm[len(g.cm)-1-r][c])
}

// ConfusionMatrixPlot renders a confusion matrix heat map to path.
// Rows are true classes, columns are predicted classes.
func ConfusionMatrixPlot(cm [][]int, classNames []string, path string) error {
	k := len(cm)
	if k == 0 {
		return errors.NewValueError("visualize.ConfusionMatrixPlot", "empty confusion matrix")
	}
	for i, row := range cm {
		if len(row) != k {
			return errors.NewDimensionError("visualize.ConfusionMatrixPlot", k, len(row), i)
		}
	}
	if len(classNames) != k {
		return errors.NewDimensionError("visualize.ConfusionMatrixPlot", k, len(classNames), 0)
	}

	pal := moreland.SmoothBlueRed().Palette(255)
	heatMap := plotter.NewHeatMap(confusionGrid{cm: cm}, pal)

	p := plot.New()
	p.Title.Text = "Confusion Matrix"
	p.X.Label.Text = "Predicted"
	p.Y.Label.Text = "True"
	p.Add(heatMap)

	p.NominalX(classNames...)
	reversed := make([]string, k)
	for i, name := range classNames {
		reversed[k-1-i] = name
	}
	p.NominalY(reversed...)

	if err := p.Save(5*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save plot %s", path)
	}
	return nil
}
