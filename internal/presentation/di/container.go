package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"denomination-vision-app/internal/config"
	"denomination-vision-app/internal/modules/classification/domain"
	classificationHandler "denomination-vision-app/internal/modules/classification/presentation/handler"
	classificationUsecase "denomination-vision-app/internal/modules/classification/usecase"
	sharedCache "denomination-vision-app/internal/modules/shared/infrastructure/cache"
	sharedDB "denomination-vision-app/internal/modules/shared/infrastructure/database"
	"denomination-vision-app/internal/modules/shared/infrastructure/inference"
	httpHandler "denomination-vision-app/internal/presentation/http/handler"
)

// Container DIコンテナ
type Container struct {
	cfg *config.Config

	// Shared Infrastructure
	inferenceClient *inference.Client
	cacheRepo       *sharedCache.RedisRepository
	recordRepo      *sharedDB.BunClassificationRepository

	// Classification Module
	catalog               *domain.Catalog
	registry              *domain.Registry
	dispatcher            *classificationUsecase.Dispatcher
	identificationUseCase *classificationUsecase.IdentificationUseCase
	historyUseCase        *classificationUsecase.HistoryUseCase
	classificationHandler *classificationHandler.ClassificationHandler

	healthHandler *httpHandler.HealthHandler
}

// NewContainer 新しいContainerを作成
//
// 分類器の初期化に失敗してもエラーにはせず、分類機能のみ無効化する。
// Redis/MySQL に接続できない場合もキャッシュ・履歴なしで起動する。
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{cfg: cfg}

	catalog, err := CatalogFromConfig(&cfg.Classifier)
	if err != nil {
		return nil, fmt.Errorf("failed to build denomination catalog: %w", err)
	}
	container.catalog = catalog

	// Shared Infrastructure: Inference Client
	container.inferenceClient = inference.NewClient(&cfg.Classifier)

	// Classification Module: Registry
	container.registry = container.loadRegistry(ctx)

	// Shared Infrastructure: Cache Repository
	var cacheRepo domain.CacheRepository
	if cfg.Redis.Enabled {
		repo, err := sharedCache.NewRedisRepository(&cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable, classification cache disabled", "error", err)
		} else {
			container.cacheRepo = repo
			cacheRepo = repo
		}
	}

	// Shared Infrastructure: Classification Repository
	var recordRepo domain.ClassificationRepository
	if cfg.MySQL.Enabled {
		repo, err := container.openRecordRepository(ctx)
		if err != nil {
			slog.Warn("MySQL unavailable, classification history disabled", "error", err)
		} else {
			container.recordRepo = repo
			recordRepo = repo
		}
	}

	// Classification Module: UseCase
	container.dispatcher = classificationUsecase.NewDispatcher(container.registry, classificationUsecase.DispatcherOptions{
		Workers:        cfg.Classifier.Workers,
		BindingTimeout: cfg.Classifier.BindingTimeout,
	})
	container.identificationUseCase = classificationUsecase.NewIdentificationUseCase(
		container.dispatcher,
		catalog,
		cfg.Classifier.AcceptanceThreshold,
		recordRepo,
	)
	container.historyUseCase = classificationUsecase.NewHistoryUseCase(recordRepo)

	// Classification Module: Handler
	container.classificationHandler = classificationHandler.NewClassificationHandler(
		container.identificationUseCase,
		container.historyUseCase,
		cacheRepo,
		cfg.Redis.TTL,
	)

	container.healthHandler = httpHandler.NewHealthHandler(container.identificationUseCase)

	return container, nil
}

// loadRegistry カタログの全モデルをロードする（失敗時は nil）
func (c *Container) loadRegistry(ctx context.Context) *domain.Registry {
	loadCtx := ctx
	if c.cfg.Classifier.LoadTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, c.cfg.Classifier.LoadTimeout)
		defer cancel()
	}

	if err := c.inferenceClient.CheckHealth(loadCtx); err != nil {
		slog.Warn("Inference service health check failed", "endpoint", c.cfg.Classifier.InferenceEndpoint, "error", err)
	}

	registry, err := domain.LoadCatalog(loadCtx, c.catalog, c.inferenceClient)
	if err != nil {
		slog.Error("Classifier initialization failed, classification disabled",
			"endpoint", c.cfg.Classifier.InferenceEndpoint,
			"error", err,
		)
		return nil
	}

	slog.Info("Classifier initialized",
		"bindings", registry.Len(),
		"denominations", len(c.catalog.All()),
	)
	return registry
}

func (c *Container) openRecordRepository(ctx context.Context) (*sharedDB.BunClassificationRepository, error) {
	repo, err := sharedDB.NewBunClassificationRepository(&c.cfg.MySQL)
	if err != nil {
		return nil, err
	}
	if err := repo.CreateSchema(ctx); err != nil {
		_ = repo.Close()
		return nil, err
	}
	return repo, nil
}

// CatalogFromConfig 設定のモデル一覧からカタログを作成（空の場合は組み込みカタログ）
func CatalogFromConfig(cfg *config.ClassifierConfig) (*domain.Catalog, error) {
	if len(cfg.Models) == 0 {
		return domain.DefaultCatalog(), nil
	}

	denominations := make([]domain.Denomination, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		category, err := domain.ParseCategory(m.Category)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", m.ID, err)
		}
		denominations = append(denominations, domain.Denomination{
			ID:            m.ID,
			Category:      category,
			Label:         m.Label,
			ModelName:     m.Model,
			PositiveLabel: m.PositiveLabel,
		})
	}
	return domain.NewCatalog(denominations)
}

// Registry ロード済みレジストリを取得（初期化失敗時は nil）
func (c *Container) Registry() *domain.Registry {
	return c.registry
}

// IdentificationUseCase 金種識別ユースケースを取得
func (c *Container) IdentificationUseCase() *classificationUsecase.IdentificationUseCase {
	return c.identificationUseCase
}

// ClassificationHandler 分類APIハンドラーを取得
func (c *Container) ClassificationHandler() *classificationHandler.ClassificationHandler {
	return c.classificationHandler
}

// HealthHandler ヘルスチェックハンドラーを取得
func (c *Container) HealthHandler() *httpHandler.HealthHandler {
	return c.healthHandler
}

// Close リソースをクローズ
func (c *Container) Close() error {
	var errs []error

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close cache repository: %w", err))
		}
		c.cacheRepo = nil
	}

	if c.recordRepo != nil {
		if err := c.recordRepo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close classification repository: %w", err))
		}
		c.recordRepo = nil
	}

	return errors.Join(errs...)
}
