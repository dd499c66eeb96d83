package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClassificationRecord 分類履歴1件
type ClassificationRecord struct {
	ID             string
	Category       Category
	DenominationID string
	Confidence     float64
	Accepted       bool
	FrameFormat    string
	FrameWidth     int
	FrameHeight    int
	CreatedAt      time.Time
}

// NewClassificationRecord 識別結果から履歴を作成
func NewClassificationRecord(frame *Frame, id Identification) *ClassificationRecord {
	return &ClassificationRecord{
		ID:             uuid.NewString(),
		Category:       id.Category,
		DenominationID: id.DenominationID,
		Confidence:     id.Confidence,
		Accepted:       id.Accepted,
		FrameFormat:    frame.Format(),
		FrameWidth:     frame.Width(),
		FrameHeight:    frame.Height(),
		CreatedAt:      time.Now(),
	}
}
