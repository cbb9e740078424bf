package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pengo/core/model"
	"github.com/YuminosukeSato/pengo/pkg/errors"
)

// FactorScaler は各特徴量を固定の係数で割るスケーラー
// 学習データから統計を推定するのではなく、列ごとの除数を与えて使う。
// 単位換算（mm→cm、g→ヘクトグラム等）のように変換を正確に
// 可逆にしたい場合に適している。
type FactorScaler struct {
	model.BaseEstimator

	// Divisors は各特徴量の除数
	Divisors []float64

	// NFeatures は特徴量の数
	NFeatures int
}

// NewFactorScaler は列ごとの除数を指定してFactorScalerを作成する
//
// 使用例:
//
//	// 3列目を1/10、4列目を1/100にスケーリング
//	scaler := preprocessing.NewFactorScaler([]float64{1, 1, 10, 100})
//	XScaled, err := scaler.FitTransform(X)
func NewFactorScaler(divisors []float64) *FactorScaler {
	return &FactorScaler{
		Divisors:  divisors,
		NFeatures: len(divisors),
	}
}

// Fit は除数の妥当性を検証する（統計の推定は行わない）
func (f *FactorScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("FactorScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	if c != f.NFeatures {
		return errors.NewDimensionError("FactorScaler.Fit", f.NFeatures, c, 1)
	}
	for j, d := range f.Divisors {
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return errors.NewValidationError("FactorScaler.Fit",
				fmt.Sprintf("divisor for column %d must be finite and non-zero", j), d)
		}
	}

	f.SetFitted()
	return nil
}

// Transform は各列を対応する除数で割る
func (f *FactorScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !f.IsFitted() {
		return nil, errors.NewNotFittedError("FactorScaler", "Transform")
	}

	r, c := X.Dims()
	if c != f.NFeatures {
		return nil, errors.NewDimensionError("FactorScaler.Transform", f.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, X.At(i, j)/f.Divisors[j])
		}
	}
	return result, nil
}

// FitTransform はFitとTransformを同時に実行する
func (f *FactorScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := f.Fit(X); err != nil {
		return nil, err
	}
	return f.Transform(X)
}

// InverseTransform は各列に除数を掛けて元のスケールに戻す
func (f *FactorScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !f.IsFitted() {
		return nil, errors.NewNotFittedError("FactorScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != f.NFeatures {
		return nil, errors.NewDimensionError("FactorScaler.InverseTransform", f.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, X.At(i, j)*f.Divisors[j])
		}
	}
	return result, nil
}

// GetParams はスケーラーのパラメータを取得する
func (f *FactorScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"divisors": f.Divisors,
	}
}

// String はスケーラーの文字列表現を返す
func (f *FactorScaler) String() string {
	return fmt.Sprintf("FactorScaler(divisors=%v)", f.Divisors)
}
