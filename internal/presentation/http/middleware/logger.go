package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader リクエストIDのヘッダー名
const RequestIDHeader = "X-Request-ID"

// healthPath ログを抑制するヘルスチェックのパス
const healthPath = "/health"

// responseWriter ステータスコードと書き込みバイト数を記録する
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logger 全リクエストをログ出力する
func Logger(next http.Handler) http.Handler {
	return logRequests(next, false)
}

// LoggerWithHealthCheck 正常なヘルスチェック以外をログ出力する
func LoggerWithHealthCheck(next http.Handler) http.Handler {
	return logRequests(next, true)
}

func logRequests(next http.Handler, quietHealth bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		start := time.Now()
		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		if quietHealth && r.URL.Path == healthPath {
			if rw.statusCode != http.StatusOK {
				slog.Error("Health check failed",
					"status", rw.statusCode,
					"request_id", requestID,
				)
			}
			return
		}

		slog.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"bytes", rw.written,
			"duration", time.Since(start),
			"request_id", requestID,
		)
	})
}
