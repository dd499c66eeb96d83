package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"denomination-vision-app/internal/config"
	"denomination-vision-app/internal/presentation/di"
	"denomination-vision-app/internal/presentation/http/router"
)

// AppConfig アプリケーション設定
type AppConfig struct {
	ConfigPath string
	Port       string
}

// ServerInterface サーバーインターフェース（Seam化）
type ServerInterface interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// App アプリケーション構造体
type App struct {
	config     *AppConfig
	cfg        *config.Config
	container  *di.Container
	server     *http.Server
	serverSeam ServerInterface // テスト用のSeam
}

// NewApp 新しいAppを作成
func NewApp(appCfg *AppConfig) (*App, error) {
	if appCfg.Port == "" {
		appCfg.Port = "8080"
	}

	// 設定の読み込み（失敗時はデフォルト）
	cfg, err := config.Load(appCfg.ConfigPath)
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "path", appCfg.ConfigPath, "error", err)
		cfg = config.DefaultConfig()
	}

	// DIコンテナの初期化（モデルのロードを含む）
	container, err := di.NewContainer(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize DI container: %w", err)
	}

	server := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      router.NewRouter(container),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Classifier.RequestTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		config:     appCfg,
		cfg:        cfg,
		container:  container,
		server:     server,
		serverSeam: server,
	}, nil
}

// Start サーバーを起動
func (a *App) Start() error {
	a.printStartupMessage()
	return a.serverSeam.ListenAndServe()
}

// printStartupMessage 起動メッセージを出力
func (a *App) printStartupMessage() {
	classifier := "unavailable"
	if registry := a.container.Registry(); registry != nil {
		classifier = fmt.Sprintf("%d models loaded", registry.Len())
	}

	fmt.Println("=== Denomination Vision Server ===")
	fmt.Printf("Inference endpoint: %s (%s)\n", a.cfg.Classifier.InferenceEndpoint, classifier)
	fmt.Printf("Server listening on http://0.0.0.0:%s\n", a.config.Port)
	fmt.Println()
	fmt.Println("Endpoints:")
	fmt.Println("  GET  /health                        - Health check")
	fmt.Println("  POST /api/v1/classify               - Classify a bill or coin image")
	fmt.Println("  GET  /api/v1/models                 - Loaded classifiers")
	fmt.Println("  GET  /api/v1/classifications        - Classification history")
	fmt.Println("  GET  /api/v1/classifications/{id}   - Classification record")
	fmt.Println()
}

// Shutdown サーバーを停止し、リソースを解放する
func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down server")

	if err := a.serverSeam.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := a.container.Close(); err != nil {
		return fmt.Errorf("container close failed: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}

// Run SIGINT/SIGTERM を受けるまでサーバーを実行する
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := a.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return a.Shutdown(shutdownCtx)
	}
}

// newLogger LOG_LEVEL に応じたロガーを作成
func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}

// realMain 実際のmain処理（テスト可能にするため分離）
func realMain() error {
	slog.SetDefault(newLogger(os.Getenv("LOG_LEVEL")))

	homeDir, err := os.UserHomeDir()
	if err != nil {
		slog.Warn("Failed to get home directory, using current directory", "error", err)
		homeDir = "."
	}

	app, err := NewApp(&AppConfig{
		ConfigPath: filepath.Join(homeDir, ".denomination-vision-app", "config.yaml"),
		Port:       os.Getenv("PORT"),
	})
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	return app.Run()
}

func main() {
	if err := realMain(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
