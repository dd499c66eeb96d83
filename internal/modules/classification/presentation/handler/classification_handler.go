package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"denomination-vision-app/internal/modules/classification/domain"
)

// maxUploadSize アップロード画像の上限
const maxUploadSize = domain.MaxFrameSize

// ClassificationHandler 紙幣・硬貨分類APIのハンドラー
type ClassificationHandler struct {
	identifier Identifier
	history    HistoryReader
	cacheRepo  domain.CacheRepository
	cacheTTL   time.Duration
}

// NewClassificationHandler 新しいClassificationHandlerを作成
//
// cacheRepo が nil の場合はキャッシュを使用しない。
func NewClassificationHandler(
	identifier Identifier,
	history HistoryReader,
	cacheRepo domain.CacheRepository,
	cacheTTL time.Duration,
) *ClassificationHandler {
	return &ClassificationHandler{
		identifier: identifier,
		history:    history,
		cacheRepo:  cacheRepo,
		cacheTTL:   cacheTTL,
	}
}

// ClassifyResponse 分類APIレスポンス
type ClassifyResponse struct {
	Success bool                   `json:"success"`
	Result  *domain.Identification `json:"result,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// ModelResponse ロード済み分類器1つ分
type ModelResponse struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Label    string `json:"label"`
	Model    string `json:"model"`
}

// ModelsResponse 分類器一覧レスポンス
type ModelsResponse struct {
	Success   bool            `json:"success"`
	Available bool            `json:"available"`
	Threshold float64         `json:"threshold"`
	Models    []ModelResponse `json:"models"`
}

// RecordResponse 分類履歴1件
type RecordResponse struct {
	ID             string    `json:"id"`
	Category       string    `json:"category"`
	DenominationID string    `json:"denomination_id,omitempty"`
	Confidence     float64   `json:"confidence"`
	Accepted       bool      `json:"accepted"`
	FrameFormat    string    `json:"frame_format"`
	FrameWidth     int       `json:"frame_width"`
	FrameHeight    int       `json:"frame_height"`
	CreatedAt      time.Time `json:"created_at"`
}

// HistoryResponse 分類履歴一覧レスポンス
type HistoryResponse struct {
	Success bool              `json:"success"`
	Records []*RecordResponse `json:"records"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

// errorResponse エラーレスポンス
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HandleClassify 画像の金種を分類する
func (h *ClassificationHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.identifier.Available() {
		h.sendError(w, "Classifier is not available", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()

	// マルチパートフォームのパース
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.sendError(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	category, err := domain.ParseCategory(r.FormValue("category"))
	if err != nil {
		h.sendError(w, "category must be one of: bill, coin", http.StatusBadRequest)
		return
	}

	// 画像ファイルの取得
	file, _, err := r.FormFile("image")
	if err != nil {
		h.sendError(w, "Image file is required", http.StatusBadRequest)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	imageData, err := io.ReadAll(file)
	if err != nil {
		h.sendError(w, "Failed to read image", http.StatusInternalServerError)
		return
	}

	cacheKey := h.generateCacheKey(category, imageData)

	// Redisキャッシュチェック
	if h.cacheRepo != nil {
		if cached, err := h.cacheRepo.Get(ctx, cacheKey); err == nil {
			var identification domain.Identification
			if err := json.Unmarshal(cached, &identification); err == nil {
				h.sendJSON(w, http.StatusOK, "HIT", ClassifyResponse{Success: true, Result: &identification})
				return
			}
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			slog.Warn("Cache lookup failed", "key", cacheKey, "error", err)
		}
	}

	identification, err := h.identifier.Identify(ctx, imageData, category)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			slog.Error("Classification failed", "category", category, "error", err)
		}
		h.sendError(w, fmt.Sprintf("Classification failed: %v", err), status)
		return
	}

	// Redisにキャッシュ保存（推論が1つも完了していない結果は保存しない）
	if h.cacheRepo != nil && !identification.Inconclusive {
		if data, err := json.Marshal(identification); err == nil {
			if err := h.cacheRepo.Set(ctx, cacheKey, data, h.cacheTTL); err != nil {
				slog.Warn("Failed to cache classification", "key", cacheKey, "error", err)
			}
		}
	}

	h.sendJSON(w, http.StatusOK, "MISS", ClassifyResponse{Success: true, Result: identification})
}

// HandleModels ロード済み分類器の一覧
func (h *ClassificationHandler) HandleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	denominations := h.identifier.Denominations()
	models := make([]ModelResponse, 0, len(denominations))
	for _, d := range denominations {
		models = append(models, ModelResponse{
			ID:       d.ID,
			Category: d.Category.String(),
			Label:    d.Label,
			Model:    d.ModelName,
		})
	}

	h.sendJSON(w, http.StatusOK, "", ModelsResponse{
		Success:   true,
		Available: h.identifier.Available(),
		Threshold: h.identifier.Threshold(),
		Models:    models,
	})
}

// HandleHistory 分類履歴を新しい順に返す
func (h *ClassificationHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, err := queryInt(r, "limit")
	if err != nil {
		h.sendError(w, "limit must be an integer", http.StatusBadRequest)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		h.sendError(w, "offset must be an integer", http.StatusBadRequest)
		return
	}

	records, err := h.history.Recent(r.Context(), limit, offset)
	if err != nil {
		h.sendError(w, fmt.Sprintf("Failed to get history: %v", err), statusFor(err))
		return
	}

	response := HistoryResponse{
		Success: true,
		Records: make([]*RecordResponse, 0, len(records)),
		Limit:   limit,
		Offset:  offset,
	}
	for _, rec := range records {
		response.Records = append(response.Records, toRecordResponse(rec))
	}

	h.sendJSON(w, http.StatusOK, "", response)
}

// HandleRecord 分類履歴1件を返す
func (h *ClassificationHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	record, err := h.history.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.sendError(w, err.Error(), statusFor(err))
		return
	}

	h.sendJSON(w, http.StatusOK, "", struct {
		Success bool            `json:"success"`
		Record  *RecordResponse `json:"record"`
	}{Success: true, Record: toRecordResponse(record)})
}

// statusFor エラーをHTTPステータスに変換
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInitialization):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func toRecordResponse(rec *domain.ClassificationRecord) *RecordResponse {
	return &RecordResponse{
		ID:             rec.ID,
		Category:       rec.Category.String(),
		DenominationID: rec.DenominationID,
		Confidence:     rec.Confidence,
		Accepted:       rec.Accepted,
		FrameFormat:    rec.FrameFormat,
		FrameWidth:     rec.FrameWidth,
		FrameHeight:    rec.FrameHeight,
		CreatedAt:      rec.CreatedAt,
	}
}

// sendJSON JSONレスポンスを送信（cacheStatus が空の場合は X-Cache を付けない）
func (h *ClassificationHandler) sendJSON(w http.ResponseWriter, statusCode int, cacheStatus string, body any) {
	w.Header().Set("Content-Type", "application/json")
	if cacheStatus != "" {
		w.Header().Set("X-Cache", cacheStatus)
	}
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// sendError エラーレスポンスを送信
func (h *ClassificationHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	h.sendJSON(w, statusCode, "", errorResponse{Success: false, Error: message})
}

// generateCacheKey キャッシュキーを生成
func (h *ClassificationHandler) generateCacheKey(category domain.Category, data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("classify:%s:%s", category, hex.EncodeToString(hash[:]))
}
