package domain

import "context"

// ClassScore 推論結果のクラス1つ分
type ClassScore struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Model ロード済みの二値分類モデル
//
// 実装は並行呼び出しに対して安全であること。
type Model interface {
	Predict(ctx context.Context, frame *Frame) ([]ClassScore, error)
}

// ModelLoader モデル名からModelをロードする
type ModelLoader interface {
	Load(ctx context.Context, name string) (Model, error)
}
