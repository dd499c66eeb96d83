package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubStatus bool

func (s stubStatus) Available() bool { return bool(s) }

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		classifier     ClassifierStatus
		wantStatusCode int
		wantStatus     string
		wantClassifier string
	}{
		{
			name:           "正常系: 分類器あり",
			method:         http.MethodGet,
			classifier:     stubStatus(true),
			wantStatusCode: http.StatusOK,
			wantStatus:     "ok",
			wantClassifier: "available",
		},
		{
			name:           "正常系: 分類器の初期化失敗",
			method:         http.MethodGet,
			classifier:     stubStatus(false),
			wantStatusCode: http.StatusOK,
			wantStatus:     "degraded",
			wantClassifier: "unavailable",
		},
		{
			name:           "境界値: 分類器未設定",
			method:         http.MethodGet,
			classifier:     nil,
			wantStatusCode: http.StatusOK,
			wantStatus:     "degraded",
			wantClassifier: "unavailable",
		},
		{
			name:           "異常系: POST",
			method:         http.MethodPost,
			classifier:     stubStatus(true),
			wantStatusCode: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.classifier)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, "/health", nil))

			if rec.Code != tt.wantStatusCode {
				t.Fatalf("status code = %d, want %d", rec.Code, tt.wantStatusCode)
			}
			if tt.wantStatus == "" {
				return
			}

			var response HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if response.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", response.Status, tt.wantStatus)
			}
			if response.Classifier != tt.wantClassifier {
				t.Errorf("classifier = %s, want %s", response.Classifier, tt.wantClassifier)
			}
			if response.Version != Version {
				t.Errorf("version = %s, want %s", response.Version, Version)
			}
		})
	}
}
