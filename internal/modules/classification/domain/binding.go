package domain

import (
	"context"
	"fmt"
	"math"
)

// Denomination 金種1つ分の定義
type Denomination struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Label    string   `json:"label"`
	// ModelName 推論サーバー上のモデル名
	ModelName string `json:"model"`
	// PositiveLabel 「この金種である」を表すクラス名（空の場合はID）
	PositiveLabel string `json:"positive_label"`
}

// positiveLabel 陽性クラス名を返す
func (d Denomination) positiveLabel() string {
	if d.PositiveLabel != "" {
		return d.PositiveLabel
	}
	return d.ID
}

// Binding 金種・カテゴリ・ロード済みモデルの組
type Binding struct {
	denomination Denomination
	model        Model
}

// NewBinding 新しいBindingを作成
func NewBinding(d Denomination, model Model) (*Binding, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("denomination id is empty")
	}
	if !d.Category.Valid() {
		return nil, fmt.Errorf("denomination %s: unknown category %q", d.ID, d.Category)
	}
	if model == nil {
		return nil, fmt.Errorf("denomination %s: model is nil", d.ID)
	}
	return &Binding{denomination: d, model: model}, nil
}

// DenominationID 金種ID
func (b *Binding) DenominationID() string {
	return b.denomination.ID
}

// Category カテゴリ
func (b *Binding) Category() Category {
	return b.denomination.Category
}

// Denomination 金種の定義
func (b *Binding) Denomination() Denomination {
	return b.denomination
}

// Vote フレームに対して推論を実行し、陽性票を返す
//
// 最上位クラスが陽性でない場合は票なし（ok=false）。
func (b *Binding) Vote(ctx context.Context, frame *Frame) (vote Vote, ok bool, err error) {
	scores, err := b.model.Predict(ctx, frame)
	if err != nil {
		return Vote{}, false, fmt.Errorf("%w: %s: %v", ErrInference, b.denomination.ID, err)
	}

	confidence, positive, err := InterpretScores(b.denomination.positiveLabel(), scores)
	if err != nil {
		return Vote{}, false, fmt.Errorf("%w: %s: %v", ErrInference, b.denomination.ID, err)
	}
	if !positive {
		return Vote{}, false, nil
	}

	return Vote{DenominationID: b.denomination.ID, Confidence: confidence}, true, nil
}

// InterpretScores 二値分類の出力を解釈する
//
// 最上位クラスが positiveLabel の場合にその確信度を返す。同点の場合は先に出現したクラスを採用。
func InterpretScores(positiveLabel string, scores []ClassScore) (float64, bool, error) {
	if len(scores) == 0 {
		return 0, false, fmt.Errorf("model returned no classes")
	}

	top := -1
	for i, s := range scores {
		if math.IsNaN(s.Confidence) || s.Confidence < 0 || s.Confidence > 1 {
			return 0, false, fmt.Errorf("confidence out of range for class %q: %v", s.Label, s.Confidence)
		}
		if top < 0 || s.Confidence > scores[top].Confidence {
			top = i
		}
	}

	if scores[top].Label != positiveLabel {
		return 0, false, nil
	}
	return scores[top].Confidence, true, nil
}
