package handler

import (
	"context"

	"denomination-vision-app/internal/modules/classification/domain"
)

// Identifier 金種識別ユースケースのインターフェース
type Identifier interface {
	Identify(ctx context.Context, imageData []byte, category domain.Category) (*domain.Identification, error)
	Available() bool
	Denominations() []domain.Denomination
	Threshold() float64
}

// HistoryReader 分類履歴参照ユースケースのインターフェース
type HistoryReader interface {
	Recent(ctx context.Context, limit, offset int) ([]*domain.ClassificationRecord, error)
	Get(ctx context.Context, id string) (*domain.ClassificationRecord, error)
}
