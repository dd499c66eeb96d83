package domain

import (
	"context"
	"time"
)

// ClassificationRepository 分類履歴のリポジトリインターフェース
type ClassificationRepository interface {
	Create(ctx context.Context, record *ClassificationRecord) error
	FindByID(ctx context.Context, id string) (*ClassificationRecord, error)
	FindRecent(ctx context.Context, limit, offset int) ([]*ClassificationRecord, error)
}

// CacheRepository キャッシュリポジトリのインターフェース
type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
