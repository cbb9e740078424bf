package model

import (
	"encoding/json"
	"fmt"
)

// FormatVersion は重みドキュメントの現在のフォーマットバージョン
const FormatVersion = "1.0"

// LayerWeights は1層分の重みを表す構造体（シリアライゼーション用）
type LayerWeights struct {
	// InputDim は層への入力次元数
	InputDim int `json:"input_dim"`

	// OutputDim は層の出力次元数（ユニット数）
	OutputDim int `json:"output_dim"`

	// Activation は層の活性化関数名（"relu", "softmax" 等）
	Activation string `json:"activation"`

	// Weights は重み行列（InputDim × OutputDim、行優先）
	Weights [][]float64 `json:"weights"`

	// Biases はバイアスベクトル（OutputDim）
	Biases []float64 `json:"biases"`
}

// NetworkWeights はネットワーク全体の重みを表す構造体（シリアライゼーション用）
type NetworkWeights struct {
	// ModelType はモデルの種類（MLPClassifier等）
	ModelType string `json:"model_type"`

	// FormatVersion はフォーマットのバージョン（互換性チェック用）
	FormatVersion string `json:"format_version"`

	// Layers は入力側から出力側への層の並び
	Layers []LayerWeights `json:"layers"`

	// Classes は学習時に観測されたクラスラベル
	Classes []int `json:"classes,omitempty"`

	// ClassNames はクラスラベルに対応する表示名（オプション）
	ClassNames []string `json:"class_names,omitempty"`

	// Hyperparameters はモデルのハイパーパラメータ
	Hyperparameters map[string]interface{} `json:"hyperparameters,omitempty"`

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool `json:"is_fitted"`
}

// ToJSON はNetworkWeightsをJSON形式にシリアライズ
func (nw *NetworkWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(nw, "", "  ")
}

// FromJSON はJSON形式からNetworkWeightsをデシリアライズ
func (nw *NetworkWeights) FromJSON(data []byte) error {
	return json.Unmarshal(data, nw)
}

// Validate はNetworkWeightsの妥当性を検証
func (nw *NetworkWeights) Validate() error {
	if nw.ModelType == "" {
		return fmt.Errorf("model_type is required")
	}

	if nw.FormatVersion == "" {
		return fmt.Errorf("format_version is required")
	}

	if nw.FormatVersion != FormatVersion {
		return fmt.Errorf("unsupported format_version %q (supported: %q)", nw.FormatVersion, FormatVersion)
	}

	if nw.IsFitted && len(nw.Layers) == 0 {
		return fmt.Errorf("fitted model must have layers")
	}

	for i, layer := range nw.Layers {
		if len(layer.Weights) != layer.InputDim {
			return fmt.Errorf("layer %d: weight rows = %d, want input_dim = %d", i, len(layer.Weights), layer.InputDim)
		}
		for r, row := range layer.Weights {
			if len(row) != layer.OutputDim {
				return fmt.Errorf("layer %d: weight row %d has %d columns, want output_dim = %d", i, r, len(row), layer.OutputDim)
			}
		}
		if len(layer.Biases) != layer.OutputDim {
			return fmt.Errorf("layer %d: biases = %d, want output_dim = %d", i, len(layer.Biases), layer.OutputDim)
		}
		if i > 0 && nw.Layers[i-1].OutputDim != layer.InputDim {
			return fmt.Errorf("layer %d: input_dim = %d does not match previous output_dim = %d", i, layer.InputDim, nw.Layers[i-1].OutputDim)
		}
	}

	return nil
}

// Clone はNetworkWeightsのディープコピーを作成
func (nw *NetworkWeights) Clone() *NetworkWeights {
	clone := &NetworkWeights{
		ModelType:       nw.ModelType,
		FormatVersion:   nw.FormatVersion,
		IsFitted:        nw.IsFitted,
		Layers:          make([]LayerWeights, len(nw.Layers)),
		Classes:         make([]int, len(nw.Classes)),
		ClassNames:      make([]string, len(nw.ClassNames)),
		Hyperparameters: make(map[string]interface{}),
	}

	copy(clone.Classes, nw.Classes)
	copy(clone.ClassNames, nw.ClassNames)

	for i, layer := range nw.Layers {
		cl := LayerWeights{
			InputDim:   layer.InputDim,
			OutputDim:  layer.OutputDim,
			Activation: layer.Activation,
			Weights:    make([][]float64, len(layer.Weights)),
			Biases:     make([]float64, len(layer.Biases)),
		}
		for r, row := range layer.Weights {
			cl.Weights[r] = make([]float64, len(row))
			copy(cl.Weights[r], row)
		}
		copy(cl.Biases, layer.Biases)
		clone.Layers[i] = cl
	}

	for k, v := range nw.Hyperparameters {
		clone.Hyperparameters[k] = v
	}

	return clone
}
