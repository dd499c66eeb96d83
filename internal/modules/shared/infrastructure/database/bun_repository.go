package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"

	_ "github.com/go-sql-driver/mysql"

	"denomination-vision-app/internal/config"
	"denomination-vision-app/internal/modules/classification/domain"
)

// Classification BUNモデル
type Classification struct {
	bun.BaseModel `bun:"table:classifications"`

	ID             string    `bun:"id,pk,type:varchar(36)"`
	Category       string    `bun:"category,notnull,type:varchar(16)"`
	DenominationID *string   `bun:"denomination_id,type:varchar(64)"`
	Confidence     float64   `bun:"confidence,notnull,default:0"`
	Accepted       bool      `bun:"accepted,notnull,default:false"`
	FrameFormat    string    `bun:"frame_format,type:varchar(16),default:''"`
	FrameWidth     int       `bun:"frame_width,notnull,default:0"`
	FrameHeight    int       `bun:"frame_height,notnull,default:0"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// BunClassificationRepository BUN実装
type BunClassificationRepository struct {
	db *bun.DB
}

// NewBunClassificationRepository 新しいBunClassificationRepositoryを作成
func NewBunClassificationRepository(cfg *config.MySQLConfig) (*BunClassificationRepository, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	sqldb, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := bun.NewDB(sqldb, mysqldialect.New())

	// 接続確認
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &BunClassificationRepository{db: db}, nil
}

// NewBunClassificationRepositoryWithDB DBインスタンスから作成（テスト用）
func NewBunClassificationRepositoryWithDB(db *bun.DB) *BunClassificationRepository {
	return &BunClassificationRepository{db: db}
}

// CreateSchema テーブルが存在しなければ作成
func (r *BunClassificationRepository) CreateSchema(ctx context.Context) error {
	if _, err := r.db.NewCreateTable().Model((*Classification)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to create classifications table: %w", err)
	}
	return nil
}

// Create 分類履歴を保存
func (r *BunClassificationRepository) Create(ctx context.Context, record *domain.ClassificationRecord) error {
	if _, err := r.db.NewInsert().Model(r.toModel(record)).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create classification: %w", err)
	}
	return nil
}

// FindByID IDで分類履歴を検索
func (r *BunClassificationRepository) FindByID(ctx context.Context, id string) (*domain.ClassificationRecord, error) {
	model := &Classification{}
	err := r.db.NewSelect().
		Model(model).
		Where("id = ?", id).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find classification: %w", err)
	}

	return r.toEntity(model), nil
}

// FindRecent 新しい順に分類履歴を取得
func (r *BunClassificationRepository) FindRecent(ctx context.Context, limit, offset int) ([]*domain.ClassificationRecord, error) {
	var models []Classification
	query := r.db.NewSelect().
		Model(&models).
		Order("created_at DESC", "id ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to find classifications: %w", err)
	}

	records := make([]*domain.ClassificationRecord, len(models))
	for i := range models {
		records[i] = r.toEntity(&models[i])
	}
	return records, nil
}

// Close データベース接続を閉じる
func (r *BunClassificationRepository) Close() error {
	return r.db.Close()
}

// toModel エンティティをモデルに変換
func (r *BunClassificationRepository) toModel(record *domain.ClassificationRecord) *Classification {
	model := &Classification{
		ID:          record.ID,
		Category:    record.Category.String(),
		Confidence:  record.Confidence,
		Accepted:    record.Accepted,
		FrameFormat: record.FrameFormat,
		FrameWidth:  record.FrameWidth,
		FrameHeight: record.FrameHeight,
		CreatedAt:   record.CreatedAt,
	}

	// 一致なしはNULLで保存
	if record.DenominationID != "" {
		id := record.DenominationID
		model.DenominationID = &id
	}

	return model
}

// toEntity モデルをエンティティに変換
func (r *BunClassificationRepository) toEntity(model *Classification) *domain.ClassificationRecord {
	record := &domain.ClassificationRecord{
		ID:          model.ID,
		Category:    domain.Category(model.Category),
		Confidence:  model.Confidence,
		Accepted:    model.Accepted,
		FrameFormat: model.FrameFormat,
		FrameWidth:  model.FrameWidth,
		FrameHeight: model.FrameHeight,
		CreatedAt:   model.CreatedAt,
	}

	if model.DenominationID != nil {
		record.DenominationID = *model.DenominationID
	}

	return record
}
