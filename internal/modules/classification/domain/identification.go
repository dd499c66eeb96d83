package domain

import "fmt"

// DefaultAcceptanceThreshold 識別成功とみなす最小確信度
const DefaultAcceptanceThreshold = 0.75

// Identification 利用者に提示する識別結果
type Identification struct {
	Category       Category `json:"category"`
	DenominationID string   `json:"denomination_id,omitempty"`
	Label          string   `json:"label,omitempty"`
	Confidence     float64  `json:"confidence"`
	Accepted       bool     `json:"accepted"`
	Message        string   `json:"message"`
	// Inconclusive 分類器が1つも完了しなかった（キャッシュ・履歴の対象外）
	Inconclusive bool `json:"-"`
}

// Assess 分類結果をしきい値で判定する
//
// 一致なしと、しきい値未満の一致はどちらも低確信度として扱う。
func Assess(category Category, result Result, catalog *Catalog, threshold float64) Identification {
	id := Identification{
		Category:       category,
		DenominationID: result.DenominationID,
		Confidence:     result.Confidence,
		Inconclusive:   result.Inconclusive,
	}

	if !result.Matched() || result.Confidence < threshold {
		id.Message = "Low confidence: could not identify the " + category.String()
		return id
	}

	id.Label = result.DenominationID
	if catalog != nil {
		if d, ok := catalog.Lookup(category, result.DenominationID); ok {
			id.Label = d.Label
		}
	}
	id.Accepted = true
	id.Message = fmt.Sprintf("Identified as %s (%.0f%%)", id.Label, result.Confidence*100)
	return id
}
