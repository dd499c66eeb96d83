package domain

// Vote 分類器1つ分の陽性票
type Vote struct {
	DenominationID string
	Confidence     float64
}

// Result 分類リクエスト1回分の結果
//
// DenominationID が空の場合は一致なし（Confidence は 0）。
// Inconclusive は分類器が1つも正常に完了しなかったことを示す。
type Result struct {
	DenominationID string  `json:"denomination_id,omitempty"`
	Confidence     float64 `json:"confidence"`
	Inconclusive   bool    `json:"-"`
}

// NoMatch 一致なしの結果
func NoMatch() Result {
	return Result{}
}

// Matched 陽性票が存在したか
func (r Result) Matched() bool {
	return r.DenominationID != ""
}

// Reduce 陽性票の中から確信度が最大のものを選ぶ
//
// 同点の場合は先に現れた票を採用するため、登録順に並べた票を渡すこと。
func Reduce(votes []Vote) Result {
	best := -1
	for i, v := range votes {
		if best < 0 || v.Confidence > votes[best].Confidence {
			best = i
		}
	}
	if best < 0 {
		return NoMatch()
	}
	return Result{
		DenominationID: votes[best].DenominationID,
		Confidence:     votes[best].Confidence,
	}
}
