package handler

import (
	"encoding/json"
	"net/http"
)

// Version アプリケーションのバージョン
const Version = "1.0.0"

// ClassifierStatus 分類機能の稼働状況
type ClassifierStatus interface {
	Available() bool
}

// HealthHandler ヘルスチェックのハンドラー
type HealthHandler struct {
	classifier ClassifierStatus
}

// NewHealthHandler 新しいHealthHandlerを作成
func NewHealthHandler(classifier ClassifierStatus) *HealthHandler {
	return &HealthHandler{classifier: classifier}
}

// HealthResponse ヘルスチェックのレスポンス
type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Classifier string `json:"classifier"`
}

// ServeHTTP ヘルスチェックを処理
//
// 分類器が利用できなくてもプロセスは稼働しているため 200 を返し、status で区別する。
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:     "ok",
		Version:    Version,
		Classifier: "available",
	}
	if h.classifier == nil || !h.classifier.Available() {
		response.Status = "degraded"
		response.Classifier = "unavailable"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}
