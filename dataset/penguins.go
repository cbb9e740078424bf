// Package dataset loads the penguin measurement table used throughout
// the library's examples and the training pipeline.
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pengo/pkg/errors"
	"github.com/YuminosukeSato/pengo/preprocessing"
)

// FeatureNames is the expected CSV header for the four feature columns,
// in order. The fifth column must be LabelName.
var FeatureNames = []string{
	"culmen_length_mm",
	"culmen_depth_mm",
	"flipper_length_mm",
	"body_mass_g",
}

// LabelName is the expected header of the label column.
const LabelName = "species"

// ClassNames maps label values 0, 1, 2 to species names.
var ClassNames = []string{"Adelie", "Gentoo", "Chinstrap"}

// Divisors rescales flipper length to centimeters and body mass to
// hectograms, leaving the culmen measurements untouched.
var Divisors = []float64{1, 1, 10, 100}

// NumClasses is the number of penguin species.
const NumClasses = 3

// Table is an immutable snapshot of a loaded dataset: features already
// rescaled, rows with missing values dropped.
type Table struct {
	// X holds the rescaled feature matrix, one row per penguin.
	X *mat.Dense

	// Y holds the integer species label for each row of X.
	Y []int

	// FeatureNames and ClassNames describe the columns of X and the
	// values of Y.
	FeatureNames []string
	ClassNames   []string
}

// NumRows returns the number of samples in the table.
func (t *Table) NumRows() int {
	r, _ := t.X.Dims()
	return r
}

// Labels returns the labels as an n×1 matrix, the shape expected by
// TrainTestSplit and OneHotEncoder.
func (t *Table) Labels() *mat.Dense {
	labels := mat.NewDense(len(t.Y), 1, nil)
	for i, y := range t.Y {
		labels.Set(i, 0, float64(y))
	}
	return labels
}

// Oversample returns a new table containing the rows of t repeated
// 2^passes times. One pass concatenates the table with itself, so two
// passes yield exactly four copies of every row. Order is preserved
// within each copy.
func (t *Table) Oversample(passes int) *Table {
	n := t.NumRows()
	_, c := t.X.Dims()

	copies := 1
	for p := 0; p < passes; p++ {
		copies *= 2
	}

	X := mat.NewDense(n*copies, c, nil)
	Y := make([]int, n*copies)
	for k := 0; k < copies; k++ {
		for i := 0; i < n; i++ {
			for j := 0; j < c; j++ {
				X.Set(k*n+i, j, t.X.At(i, j))
			}
			Y[k*n+i] = t.Y[i]
		}
	}

	return &Table{
		X:            X,
		Y:            Y,
		FeatureNames: t.FeatureNames,
		ClassNames:   t.ClassNames,
	}
}

// Load reads a penguin CSV file from path.
//
// The header must match FeatureNames followed by LabelName exactly.
// Rows with a missing value in any column are dropped. Flipper length
// and body mass are rescaled by the fixed Divisors.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dataset %s", path)
	}
	defer f.Close()

	return Read(f)
}

// Read parses a penguin CSV table from r. See Load.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read dataset header")
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var (
		raw    []float64
		labels []int
	)
	nCols := len(FeatureNames)

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read dataset line %d", line)
		}

		row, label, ok, err := parseRow(record, line)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Missing value somewhere in the row; drop it.
			continue
		}
		raw = append(raw, row...)
		labels = append(labels, label)
	}

	if len(labels) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataset has no complete rows")
	}

	X := mat.NewDense(len(labels), nCols, raw)
	scaler := preprocessing.NewFactorScaler(Divisors)
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		return nil, errors.Wrap(err, "failed to rescale dataset")
	}

	return &Table{
		X:            scaled.(*mat.Dense),
		Y:            labels,
		FeatureNames: FeatureNames,
		ClassNames:   ClassNames,
	}, nil
}

func checkHeader(header []string) error {
	want := append(append([]string{}, FeatureNames...), LabelName)
	if len(header) != len(want) {
		return errors.NewValueError("dataset.Read",
			"header has "+strconv.Itoa(len(header))+" columns, want "+strconv.Itoa(len(want)))
	}
	for i, name := range want {
		if strings.TrimSpace(header[i]) != name {
			return errors.NewValueError("dataset.Read",
				"header column "+strconv.Itoa(i)+" is "+strconv.Quote(header[i])+", want "+strconv.Quote(name))
		}
	}
	return nil
}

// parseRow parses one CSV record. ok is false when the row contains a
// missing value and should be dropped.
func parseRow(record []string, line int) (features []float64, label int, ok bool, err error) {
	if len(record) != len(FeatureNames)+1 {
		return nil, 0, false, errors.NewValueError("dataset.Read",
			"line "+strconv.Itoa(line)+" has "+strconv.Itoa(len(record))+" fields, want "+strconv.Itoa(len(FeatureNames)+1))
	}

	features = make([]float64, len(FeatureNames))
	for j := 0; j < len(FeatureNames); j++ {
		field := strings.TrimSpace(record[j])
		if isMissing(field) {
			return nil, 0, false, nil
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, 0, false, errors.NewValueError("dataset.Read",
				"line "+strconv.Itoa(line)+": cannot parse "+strconv.Quote(field)+" as a number")
		}
		if math.IsNaN(v) {
			return nil, 0, false, nil
		}
		features[j] = v
	}

	labelField := strings.TrimSpace(record[len(FeatureNames)])
	if isMissing(labelField) {
		return nil, 0, false, nil
	}
	label, convErr := strconv.Atoi(labelField)
	if convErr != nil {
		return nil, 0, false, errors.NewValueError("dataset.Read",
			"line "+strconv.Itoa(line)+": cannot parse "+strconv.Quote(labelField)+" as a label")
	}
	if label < 0 || label >= NumClasses {
		return nil, 0, false, errors.NewValueError("dataset.Read",
			"line "+strconv.Itoa(line)+": label "+strconv.Itoa(label)+" out of range [0, "+strconv.Itoa(NumClasses-1)+"]")
	}

	return features, label, true, nil
}

// isMissing reports whether a CSV field denotes a missing value.
func isMissing(field string) bool {
	switch strings.ToLower(field) {
	case "", "na", "nan":
		return true
	}
	return false
}
