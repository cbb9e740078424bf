package preprocessing

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pengo/core/model"
	"github.com/YuminosukeSato/pengo/pkg/errors"
)

// OneHotEncoder は整数のクラスラベルをone-hotベクトルに変換するエンコーダー
// 入力は n_samples × 1 のラベル列、出力は n_samples × n_classes の行列となる。
type OneHotEncoder struct {
	model.BaseEstimator

	// Categories は学習時に観測されたクラスラベル（昇順）
	Categories []int

	// index はラベルから列インデックスへの逆引き
	index map[int]int
}

// NewOneHotEncoder は新しいOneHotEncoderを作成する
//
// 使用例:
//
//	encoder := preprocessing.NewOneHotEncoder()
//	Y, err := encoder.FitTransform(yLabels)
func NewOneHotEncoder() *OneHotEncoder {
	return &OneHotEncoder{}
}

// Fit はラベル列からクラスの集合を学習する
func (e *OneHotEncoder) Fit(y mat.Matrix) error {
	r, c := y.Dims()
	if r == 0 {
		return errors.NewModelError("OneHotEncoder.Fit", "empty data", errors.ErrEmptyData)
	}
	if c != 1 {
		return errors.NewDimensionError("OneHotEncoder.Fit", 1, c, 1)
	}

	seen := make(map[int]bool)
	for i := 0; i < r; i++ {
		label, err := labelAt(y, i)
		if err != nil {
			return errors.Wrap(err, "OneHotEncoder.Fit")
		}
		seen[label] = true
	}

	e.Categories = make([]int, 0, len(seen))
	for label := range seen {
		e.Categories = append(e.Categories, label)
	}
	sort.Ints(e.Categories)

	e.index = make(map[int]int, len(e.Categories))
	for j, label := range e.Categories {
		e.index[label] = j
	}

	e.SetFitted()
	return nil
}

// Transform はラベル列をone-hot行列に変換する
// 学習時に観測されなかったラベルはエラーとなる。
func (e *OneHotEncoder) Transform(y mat.Matrix) (mat.Matrix, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("OneHotEncoder", "Transform")
	}

	r, c := y.Dims()
	if c != 1 {
		return nil, errors.NewDimensionError("OneHotEncoder.Transform", 1, c, 1)
	}

	result := mat.NewDense(r, len(e.Categories), nil)
	for i := 0; i < r; i++ {
		label, err := labelAt(y, i)
		if err != nil {
			return nil, errors.Wrap(err, "OneHotEncoder.Transform")
		}
		j, ok := e.index[label]
		if !ok {
			return nil, errors.NewValueError("OneHotEncoder.Transform",
				fmt.Sprintf("unknown label %d (known: %v)", label, e.Categories))
		}
		result.Set(i, j, 1.0)
	}
	return result, nil
}

// FitTransform はFitとTransformを同時に実行する
func (e *OneHotEncoder) FitTransform(y mat.Matrix) (mat.Matrix, error) {
	if err := e.Fit(y); err != nil {
		return nil, err
	}
	return e.Transform(y)
}

// InverseTransform はone-hot行列（または確率行列）をラベル列に戻す
// 各行の最大値を持つ列のラベルを返す。同値の場合は先頭の列を採用する。
func (e *OneHotEncoder) InverseTransform(Y mat.Matrix) (mat.Matrix, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("OneHotEncoder", "InverseTransform")
	}

	r, c := Y.Dims()
	if c != len(e.Categories) {
		return nil, errors.NewDimensionError("OneHotEncoder.InverseTransform", len(e.Categories), c, 1)
	}

	result := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		best := 0
		for j := 1; j < c; j++ {
			if Y.At(i, j) > Y.At(i, best) {
				best = j
			}
		}
		result.Set(i, 0, float64(e.Categories[best]))
	}
	return result, nil
}

// NClasses は学習時に観測されたクラス数を返す
func (e *OneHotEncoder) NClasses() int {
	return len(e.Categories)
}

// labelAt は行列のi行目のラベルを整数として取り出す
func labelAt(y mat.Matrix, i int) (int, error) {
	v := y.At(i, 0)
	if math.IsNaN(v) || v != math.Trunc(v) {
		return 0, errors.NewValueError("labelAt",
			fmt.Sprintf("label at row %d is not an integer: %v", i, v))
	}
	return int(v), nil
}
