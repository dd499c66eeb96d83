package domain

import "errors"

var (
	// ErrInitialization 分類器が1つもロードできずレジストリが使用不可
	ErrInitialization = errors.New("classifier initialization failed")

	// ErrInvalidInput 画像フレームまたはカテゴリが不正
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoModels 指定カテゴリに分類器が存在しない
	ErrNoModels = errors.New("no models available")

	// ErrInference 分類器1つ分の推論失敗（リクエスト全体には伝播しない）
	ErrInference = errors.New("inference failed")

	// ErrRecordNotFound 分類履歴が存在しない
	ErrRecordNotFound = errors.New("classification record not found")

	// ErrCacheMiss キャッシュにキーが存在しない
	ErrCacheMiss = errors.New("cache miss")
)
