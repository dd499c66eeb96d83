package router

import (
	"net/http"

	"denomination-vision-app/internal/presentation/di"
	"denomination-vision-app/internal/presentation/http/middleware"
)

// NewRouter 新しいルーターを作成
func NewRouter(container *di.Container) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.Handle("/health", container.HealthHandler())

	// Classification API ハンドラー
	classification := container.ClassificationHandler()
	mux.HandleFunc("/api/v1/classify", classification.HandleClassify)
	mux.HandleFunc("/api/v1/models", classification.HandleModels)
	mux.HandleFunc("/api/v1/classifications", classification.HandleHistory)
	mux.HandleFunc("/api/v1/classifications/{id}", classification.HandleRecord)

	// ミドルウェアの適用
	var h http.Handler = mux
	h = middleware.Recovery(h)
	h = middleware.LoggerWithHealthCheck(h)
	h = middleware.CORS(h)

	return h
}
