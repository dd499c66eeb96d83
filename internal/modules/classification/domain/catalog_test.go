package domain

import "testing"

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	counts := map[Category]int{}
	for _, d := range c.All() {
		counts[d.Category]++
		if d.ModelName == "" {
			t.Errorf("%s: ModelName should be derived", d.ID)
		}
	}
	if counts[CategoryBill] == 0 || counts[CategoryCoin] == 0 {
		t.Errorf("catalog should contain both bills and coins: %v", counts)
	}

	d, ok := c.Lookup(CategoryCoin, "5p")
	if !ok {
		t.Fatal("Lookup(coin, 5p) not found")
	}
	if d.ModelName != "coin-5p" {
		t.Errorf("ModelName = %s, want coin-5p", d.ModelName)
	}

	if _, ok := c.Lookup(CategoryBill, "5p"); ok {
		t.Error("Lookup(bill, 5p) should not find a coin")
	}
}

func TestNewCatalog(t *testing.T) {
	tests := []struct {
		name    string
		input   []Denomination
		wantErr bool
	}{
		{
			name:  "正常系: 同じIDでもカテゴリが違えば可",
			input: []Denomination{{ID: "x", Category: CategoryBill}, {ID: "x", Category: CategoryCoin}},
		},
		{
			name:    "異常系: 同一カテゴリ内の重複",
			input:   []Denomination{{ID: "x", Category: CategoryCoin}, {ID: "x", Category: CategoryCoin}},
			wantErr: true,
		},
		{
			name:    "異常系: 不明なカテゴリ",
			input:   []Denomination{{ID: "x", Category: "token"}},
			wantErr: true,
		},
		{
			name:    "異常系: ID未指定",
			input:   []Denomination{{Category: CategoryCoin}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewCatalog() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{in: "bill", want: CategoryBill},
		{in: " COIN ", want: CategoryCoin},
		{in: "token", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCategory() = %s, want %s", got, tt.want)
			}
		})
	}
}
