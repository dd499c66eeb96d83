package usecase

import (
	"context"
	"fmt"
	"strings"

	"denomination-vision-app/internal/modules/classification/domain"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HistoryUseCase 分類履歴の参照ユースケース
type HistoryUseCase struct {
	records domain.ClassificationRepository
}

// NewHistoryUseCase 新しいHistoryUseCaseを作成
func NewHistoryUseCase(records domain.ClassificationRepository) *HistoryUseCase {
	return &HistoryUseCase{records: records}
}

// Recent 新しい順に履歴を取得
func (uc *HistoryUseCase) Recent(ctx context.Context, limit, offset int) ([]*domain.ClassificationRecord, error) {
	if uc.records == nil {
		return []*domain.ClassificationRecord{}, nil
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	records, err := uc.records.FindRecent(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list classification records: %w", err)
	}
	return records, nil
}

// Get IDで履歴を取得
func (uc *HistoryUseCase) Get(ctx context.Context, id string) (*domain.ClassificationRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is empty", domain.ErrInvalidInput)
	}
	if uc.records == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	return uc.records.FindByID(ctx, id)
}
