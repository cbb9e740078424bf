// Package metrics は分類モデルの評価指標を提供する
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pengo/pkg/errors"
)

// Accuracy は正解率を計算する
//
// パラメータ:
//   - yTrue: 正解ラベル
//   - yPred: 予測ラベル
//
// 戻り値:
//   - float64: 正解率 [0, 1]
//   - error: エラーが発生した場合
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// AccuracyMatrix は行列形式の入力（n×1）に対して正解率を計算する
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	yTrueVec, err := columnVector("AccuracyMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	yPredVec, err := columnVector("AccuracyMatrix", yPred)
	if err != nil {
		return 0, err
	}
	return Accuracy(yTrueVec, yPredVec)
}

// ClassificationError は誤分類率（1 - 正解率）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// ArgmaxRows は確率行列の各行を最大値の列インデックスに縮約する
// 同値の場合は最も小さいインデックスを返す
func ArgmaxRows(proba mat.Matrix) (*mat.VecDense, error) {
	n, k := proba.Dims()
	if n == 0 || k == 0 {
		return nil, errors.NewValueError("ArgmaxRows", "empty matrix")
	}

	result := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		best := 0
		for j := 1; j < k; j++ {
			if proba.At(i, j) > proba.At(i, best) {
				best = j
			}
		}
		result.SetVec(i, float64(best))
	}
	return result, nil
}

// ConfusionMatrix は混同行列を計算する
//
// 行が正解クラス、列が予測クラスを表す。行の合計はそのクラスの
// 正解サンプル数に一致し、対角和は正しく分類されたサンプル数となる。
//
// パラメータ:
//   - yTrue: 正解ラベル（0からnumClasses-1の整数）
//   - yPred: 予測ラベル
//   - numClasses: クラス数
//
// 戻り値:
//   - [][]int: numClasses × numClasses の混同行列
//   - error: エラーが発生した場合
func ConfusionMatrix(yTrue, yPred *mat.VecDense, numClasses int) ([][]int, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "empty vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError("ConfusionMatrix", n, yPred.Len(), 0)
	}
	if numClasses <= 0 {
		return nil, errors.NewValidationError("numClasses", "must be positive", numClasses)
	}

	cm := make([][]int, numClasses)
	for i := range cm {
		cm[i] = make([]int, numClasses)
	}

	for i := 0; i < n; i++ {
		trueLabel := int(yTrue.AtVec(i))
		predLabel := int(yPred.AtVec(i))
		if trueLabel < 0 || trueLabel >= numClasses {
			return nil, errors.NewValueError("ConfusionMatrix", "true label out of range")
		}
		if predLabel < 0 || predLabel >= numClasses {
			return nil, errors.NewValueError("ConfusionMatrix", "predicted label out of range")
		}
		cm[trueLabel][predLabel]++
	}
	return cm, nil
}

// Precision はマクロ平均の適合率を計算する
// 予測が1件もないクラスは0として扱い、UndefinedMetricWarningを発行する
func Precision(yTrue, yPred *mat.VecDense, numClasses int) (float64, error) {
	cm, err := ConfusionMatrix(yTrue, yPred, numClasses)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for c := 0; c < numClasses; c++ {
		predicted := 0
		for r := 0; r < numClasses; r++ {
			predicted += cm[r][c]
		}
		if predicted == 0 {
			errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted samples", 0))
			continue
		}
		total += float64(cm[c][c]) / float64(predicted)
	}
	return total / float64(numClasses), nil
}

// Recall はマクロ平均の再現率を計算する
// 正解が1件もないクラスは0として扱い、UndefinedMetricWarningを発行する
func Recall(yTrue, yPred *mat.VecDense, numClasses int) (float64, error) {
	cm, err := ConfusionMatrix(yTrue, yPred, numClasses)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for c := 0; c < numClasses; c++ {
		actual := 0
		for j := 0; j < numClasses; j++ {
			actual += cm[c][j]
		}
		if actual == 0 {
			errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true samples", 0))
			continue
		}
		total += float64(cm[c][c]) / float64(actual)
	}
	return total / float64(numClasses), nil
}

// F1Score はマクロ平均のF1スコアを計算する
func F1Score(yTrue, yPred *mat.VecDense, numClasses int) (float64, error) {
	p, err := Precision(yTrue, yPred, numClasses)
	if err != nil {
		return 0, err
	}
	r, err := Recall(yTrue, yPred, numClasses)
	if err != nil {
		return 0, err
	}
	if p+r == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("f1", "precision and recall are both zero", 0))
		return 0, nil
	}
	return 2 * p * r / (p + r), nil
}

// LogLoss はカテゴリカル交差エントロピー損失を計算する
//
// パラメータ:
//   - yTrue: 正解ラベル（0からk-1の整数）
//   - proba: n×k の予測確率行列
func LogLoss(yTrue *mat.VecDense, proba mat.Matrix) (float64, error) {
	n, k := proba.Dims()
	if n == 0 || k == 0 {
		return 0, errors.NewValueError("LogLoss", "empty matrix")
	}
	if yTrue.Len() != n {
		return 0, errors.NewDimensionError("LogLoss", n, yTrue.Len(), 0)
	}

	total := 0.0
	for i := 0; i < n; i++ {
		label := int(yTrue.AtVec(i))
		if label < 0 || label >= k {
			return 0, errors.NewValueError("LogLoss", "label out of range")
		}
		// 確率を0から遠ざけてからlogを取る
		total -= errors.StabilizeLog(proba.At(i, label))
	}

	loss := total / float64(n)
	if math.IsNaN(loss) || math.IsInf(loss, 0) {
		return 0, errors.NewNumericalInstabilityError("LogLoss", []float64{loss}, 0)
	}
	return loss, nil
}

// columnVector は n×1 行列をVecDenseに変換する
func columnVector(op string, m mat.Matrix) (*mat.VecDense, error) {
	r, c := m.Dims()
	if r == 0 {
		return nil, errors.NewValueError(op, "empty matrix")
	}
	if c != 1 {
		return nil, errors.NewValueError(op, "must be a column vector (n×1 matrix)")
	}

	vec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		vec.SetVec(i, m.At(i, 0))
	}
	return vec, nil
}
