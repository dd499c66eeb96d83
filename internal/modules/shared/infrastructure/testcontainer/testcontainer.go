// Package testcontainer 結合テスト用のRedis/MySQLコンテナ
package testcontainer

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	rediscontainer "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"denomination-vision-app/internal/config"
)

const (
	redisImage = "redis:7-alpine"
	mysqlImage = "mysql:8.0"
)

// RedisContainer Redisコンテナ
type RedisContainer struct {
	Container *rediscontainer.RedisContainer
	Host      string
	Port      int
}

// MySQLContainer MySQLコンテナ
type MySQLContainer struct {
	Container *mysql.MySQLContainer
	Host      string
	Port      int
	Database  string
	User      string
	Password  string
}

// StartRedis Redisコンテナを起動し、テスト終了時に停止する
func StartRedis(ctx context.Context, t *testing.T) (*RedisContainer, error) {
	t.Helper()
	skipIfShort(t)

	container, err := rediscontainer.Run(ctx,
		redisImage,
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start redis container: %w", err)
	}
	t.Cleanup(func() { terminate(t, container) })

	host, port, err := endpoint(ctx, container, "6379/tcp")
	if err != nil {
		return nil, fmt.Errorf("redis endpoint: %w", err)
	}

	return &RedisContainer{Container: container, Host: host, Port: port}, nil
}

// StartMySQL MySQLコンテナを起動し、テスト終了時に停止する
func StartMySQL(ctx context.Context, t *testing.T) (*MySQLContainer, error) {
	t.Helper()
	skipIfShort(t)

	const (
		database = "denominations_test"
		user     = "testuser"
		password = "testpass"
	)

	container, err := mysql.Run(ctx,
		mysqlImage,
		mysql.WithDatabase(database),
		mysql.WithUsername(user),
		mysql.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(90*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start mysql container: %w", err)
	}
	t.Cleanup(func() { terminate(t, container) })

	host, port, err := endpoint(ctx, container, "3306/tcp")
	if err != nil {
		return nil, fmt.Errorf("mysql endpoint: %w", err)
	}

	return &MySQLContainer{
		Container: container,
		Host:      host,
		Port:      port,
		Database:  database,
		User:      user,
		Password:  password,
	}, nil
}

// Config コンテナに接続するRedis設定
func (r *RedisContainer) Config() *config.RedisConfig {
	return &config.RedisConfig{
		Enabled: true,
		Host:    r.Host,
		Port:    r.Port,
		TTL:     time.Hour,
	}
}

// Config コンテナに接続するMySQL設定
func (m *MySQLContainer) Config() *config.MySQLConfig {
	return &config.MySQLConfig{
		Enabled:  true,
		Host:     m.Host,
		Port:     m.Port,
		User:     m.User,
		Password: m.Password,
		Database: m.Database,
	}
}

// ConnectionString MySQL接続文字列を取得
func (m *MySQLContainer) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		m.User, m.Password, m.Host, m.Port, m.Database)
}

func skipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
}

func endpoint(ctx context.Context, c testcontainers.Container, natPort string) (string, int, error) {
	host, err := c.Host(ctx)
	if err != nil {
		return "", 0, err
	}
	mapped, err := c.MappedPort(ctx, nat.Port(natPort))
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(mapped.Port())
	if err != nil {
		return "", 0, err
	}
	return host, port, nil
}

func terminate(t *testing.T, c testcontainers.Container) {
	if err := testcontainers.TerminateContainer(c); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}
