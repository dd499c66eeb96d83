package domain

import (
	"strings"
	"testing"
)

func TestAssess(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		name         string
		category     Category
		result       Result
		wantAccepted bool
		wantLabel    string
	}{
		{
			name:         "正常系: しきい値以上",
			category:     CategoryCoin,
			result:       Result{DenominationID: "5p", Confidence: 0.92},
			wantAccepted: true,
			wantLabel:    "5 pence",
		},
		{
			name:         "境界値: しきい値ちょうど",
			category:     CategoryBill,
			result:       Result{DenominationID: "20b", Confidence: 0.75},
			wantAccepted: true,
			wantLabel:    "£20 note",
		},
		{
			name:         "正常系: しきい値未満は低確信度",
			category:     CategoryCoin,
			result:       Result{DenominationID: "5p", Confidence: 0.74},
			wantAccepted: false,
		},
		{
			name:         "正常系: 一致なし",
			category:     CategoryCoin,
			result:       NoMatch(),
			wantAccepted: false,
		},
		{
			name:         "正常系: カタログにないIDはIDをラベルに",
			category:     CategoryCoin,
			result:       Result{DenominationID: "3p", Confidence: 0.9},
			wantAccepted: true,
			wantLabel:    "3p",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess(tt.category, tt.result, catalog, DefaultAcceptanceThreshold)
			if got.Accepted != tt.wantAccepted {
				t.Errorf("Accepted = %v, want %v", got.Accepted, tt.wantAccepted)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", got.Label, tt.wantLabel)
			}
			if !tt.wantAccepted && !strings.HasPrefix(got.Message, "Low confidence") {
				t.Errorf("Message = %q, want low confidence message", got.Message)
			}
			if got.Confidence != tt.result.Confidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.result.Confidence)
			}
		})
	}
}
