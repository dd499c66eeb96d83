package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"denomination-vision-app/internal/modules/classification/domain"
)

// Classifier 分類処理のインターフェース
type Classifier interface {
	Classify(ctx context.Context, frame *domain.Frame, category domain.Category) (domain.Result, error)
	Available() bool
	Bindings() []*domain.Binding
}

// IdentificationUseCase 画像から金種を識別するユースケース
type IdentificationUseCase struct {
	classifier Classifier
	catalog    *domain.Catalog
	threshold  float64
	records    domain.ClassificationRepository
}

// NewIdentificationUseCase 新しいIdentificationUseCaseを作成
//
// records が nil の場合は履歴を保存しない。
func NewIdentificationUseCase(classifier Classifier, catalog *domain.Catalog, threshold float64, records domain.ClassificationRepository) *IdentificationUseCase {
	return &IdentificationUseCase{
		classifier: classifier,
		catalog:    catalog,
		threshold:  threshold,
		records:    records,
	}
}

// Identify 画像データを分類し、しきい値で判定した結果を返す
func (uc *IdentificationUseCase) Identify(ctx context.Context, imageData []byte, category domain.Category) (*domain.Identification, error) {
	// 入力検証
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, category)
	}

	frame, err := domain.NewFrame(imageData)
	if err != nil {
		return nil, err
	}

	result, err := uc.classifier.Classify(ctx, frame, category)
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	identification := domain.Assess(category, result, uc.catalog, uc.threshold)

	if identification.Inconclusive {
		slog.Warn("Classification inconclusive, history not saved", "category", category)
		return &identification, nil
	}

	// 履歴の保存は失敗しても識別結果は返す
	if uc.records != nil {
		record := domain.NewClassificationRecord(frame, identification)
		if err := uc.records.Create(ctx, record); err != nil {
			slog.Error("Failed to save classification record",
				"id", record.ID,
				"error", err,
			)
		}
	}

	return &identification, nil
}

// Available 分類機能が利用可能か
func (uc *IdentificationUseCase) Available() bool {
	return uc.classifier != nil && uc.classifier.Available()
}

// Denominations ロード済み分類器の金種一覧
func (uc *IdentificationUseCase) Denominations() []domain.Denomination {
	if uc.classifier == nil {
		return nil
	}
	bindings := uc.classifier.Bindings()
	out := make([]domain.Denomination, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, b.Denomination())
	}
	return out
}

// Threshold 識別成功とみなす最小確信度
func (uc *IdentificationUseCase) Threshold() float64 {
	return uc.threshold
}
