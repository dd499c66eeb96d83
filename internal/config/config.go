package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config アプリケーション全体の設定
type Config struct {
	Classifier ClassifierConfig `yaml:"classifier"`
	Redis      RedisConfig      `yaml:"redis"`
	MySQL      MySQLConfig      `yaml:"mysql"`
}

// ClassifierConfig 紙幣・硬貨分類器の設定
type ClassifierConfig struct {
	// InferenceEndpoint 推論サーバーのベースURL
	InferenceEndpoint string        `yaml:"inference_endpoint"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	// Workers 1リクエストあたりの同時推論数の上限
	Workers int `yaml:"workers"`
	// BindingTimeout 分類器1つあたりのタイムアウト（0は無制限）
	BindingTimeout      time.Duration `yaml:"binding_timeout"`
	LoadTimeout         time.Duration `yaml:"load_timeout"`
	AcceptanceThreshold float64       `yaml:"acceptance_threshold"`
	// Models 空の場合は組み込みのカタログを使用
	Models []ModelConfig `yaml:"models"`
}

// ModelConfig 分類器1つ分の定義
type ModelConfig struct {
	ID            string `yaml:"id"`
	Category      string `yaml:"category"`
	Label         string `yaml:"label"`
	Model         string `yaml:"model"`
	PositiveLabel string `yaml:"positive_label"`
}

// RedisConfig Redisの設定
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// MySQLConfig MySQLの設定
type MySQLConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// Load 設定ファイルを読み込む
func Load(configPath string) (*Config, error) {
	// 設定ファイルが存在しない場合はデフォルト設定を返す
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 環境変数の展開
	dataStr := os.ExpandEnv(string(data))

	// 未指定の項目はデフォルト値のまま残す
	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(dataStr), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultConfig デフォルト設定を返す
func DefaultConfig() *Config {
	// Redis/MySQLのホストはテスト環境では localhost を使用
	redisHost := "redis"
	mysqlHost := "mysql"
	inferenceEndpoint := "http://inference:5000"
	if os.Getenv("GO_ENV") == "test" {
		redisHost = "localhost"
		mysqlHost = "localhost"
		inferenceEndpoint = "http://localhost:5000"
	}
	if v := os.Getenv("INFERENCE_ENDPOINT"); v != "" {
		inferenceEndpoint = v
	}

	return &Config{
		Classifier: ClassifierConfig{
			InferenceEndpoint:   inferenceEndpoint,
			RequestTimeout:      30 * time.Second,
			RequestsPerSecond:   50,
			Burst:               20,
			Workers:             4,
			BindingTimeout:      0,
			LoadTimeout:         10 * time.Second,
			AcceptanceThreshold: 0.75,
		},
		Redis: RedisConfig{
			Enabled:  true,
			Host:     redisHost,
			Port:     6379,
			Password: "",
			DB:       0,
			TTL:      24 * time.Hour,
		},
		MySQL: MySQLConfig{
			Enabled:  true,
			Host:     mysqlHost,
			Port:     3306,
			User:     "root",
			Password: os.Getenv("MYSQL_ROOT_PASSWORD"),
			Database: "denominations",
		},
	}
}

// Validate 設定値の整合性を検証
func (c *Config) Validate() error {
	if c.Classifier.InferenceEndpoint == "" {
		return fmt.Errorf("classifier.inference_endpoint is required")
	}
	if c.Classifier.Workers <= 0 {
		return fmt.Errorf("classifier.workers must be positive: %d", c.Classifier.Workers)
	}
	if c.Classifier.BindingTimeout < 0 {
		return fmt.Errorf("classifier.binding_timeout must not be negative: %s", c.Classifier.BindingTimeout)
	}
	if c.Classifier.AcceptanceThreshold < 0 || c.Classifier.AcceptanceThreshold > 1 {
		return fmt.Errorf("classifier.acceptance_threshold must be within [0,1]: %v", c.Classifier.AcceptanceThreshold)
	}
	for i, m := range c.Classifier.Models {
		if m.ID == "" || m.Category == "" {
			return fmt.Errorf("classifier.models[%d]: id and category are required", i)
		}
	}
	return nil
}

// Save 設定をファイルに保存する
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
