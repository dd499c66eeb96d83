package usecase

import (
	"context"
	"errors"
	"testing"

	"denomination-vision-app/internal/modules/classification/domain"
)

func TestHistoryUseCase_Recent(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		mockErr    error
		wantLimit  int
		wantOffset int
		wantErr    bool
	}{
		{
			name:      "正常系: 指定どおり",
			limit:     10,
			offset:    5,
			wantLimit: 10, wantOffset: 5,
		},
		{
			name:      "境界値: 0はデフォルト",
			limit:     0,
			wantLimit: defaultHistoryLimit,
		},
		{
			name:      "境界値: 上限で切り詰め",
			limit:     1000,
			wantLimit: maxHistoryLimit,
		},
		{
			name:      "境界値: 負のオフセット",
			limit:     10,
			offset:    -3,
			wantLimit: 10, wantOffset: 0,
		},
		{
			name:      "異常系: リポジトリエラー",
			limit:     10,
			mockErr:   errors.New("db error"),
			wantLimit: 10,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLimit, gotOffset int
			repo := &MockClassificationRepository{
				FindRecentFunc: func(ctx context.Context, limit, offset int) ([]*domain.ClassificationRecord, error) {
					gotLimit, gotOffset = limit, offset
					return []*domain.ClassificationRecord{}, tt.mockErr
				},
			}
			uc := NewHistoryUseCase(repo)

			_, err := uc.Recent(context.Background(), tt.limit, tt.offset)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Recent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if gotLimit != tt.wantLimit || gotOffset != tt.wantOffset {
				t.Errorf("FindRecent(%d, %d), want (%d, %d)", gotLimit, gotOffset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestHistoryUseCase_Get(t *testing.T) {
	uc := NewHistoryUseCase(&MockClassificationRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.ClassificationRecord, error) {
			if id == "missing" {
				return nil, domain.ErrRecordNotFound
			}
			return &domain.ClassificationRecord{ID: id}, nil
		},
	})

	if rec, err := uc.Get(context.Background(), "abc"); err != nil || rec.ID != "abc" {
		t.Errorf("Get(abc) = %v, %v", rec, err)
	}
	if _, err := uc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrRecordNotFound", err)
	}
	if _, err := uc.Get(context.Background(), " "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Get(blank) error = %v, want ErrInvalidInput", err)
	}
}

func TestHistoryUseCase_WithoutRepository(t *testing.T) {
	uc := NewHistoryUseCase(nil)

	records, err := uc.Recent(context.Background(), 10, 0)
	if err != nil || len(records) != 0 {
		t.Errorf("Recent() = %v, %v", records, err)
	}
	if _, err := uc.Get(context.Background(), "abc"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("Get() error = %v, want ErrRecordNotFound", err)
	}
}
