package domain

import "fmt"

// Catalog 金種定義の一覧（登録順を保持）
type Catalog struct {
	denominations []Denomination
	index         map[Category]map[string]int
}

// NewCatalog 新しいCatalogを作成
func NewCatalog(denominations []Denomination) (*Catalog, error) {
	c := &Catalog{index: make(map[Category]map[string]int)}
	for _, d := range denominations {
		if d.ID == "" {
			return nil, fmt.Errorf("denomination id is empty")
		}
		if !d.Category.Valid() {
			return nil, fmt.Errorf("denomination %s: unknown category %q", d.ID, d.Category)
		}
		if d.ModelName == "" {
			d.ModelName = string(d.Category) + "-" + d.ID
		}
		if d.Label == "" {
			d.Label = d.ID
		}

		ids := c.index[d.Category]
		if ids == nil {
			ids = make(map[string]int)
			c.index[d.Category] = ids
		}
		if _, dup := ids[d.ID]; dup {
			return nil, fmt.Errorf("duplicate denomination %s in category %s", d.ID, d.Category)
		}
		ids[d.ID] = len(c.denominations)
		c.denominations = append(c.denominations, d)
	}
	return c, nil
}

// DefaultCatalog 組み込みの金種カタログ
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultDenominations)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultDenominations = []Denomination{
	{ID: "5b", Category: CategoryBill, Label: "£5 note"},
	{ID: "10b", Category: CategoryBill, Label: "£10 note"},
	{ID: "20b", Category: CategoryBill, Label: "£20 note"},
	{ID: "50b", Category: CategoryBill, Label: "£50 note"},
	{ID: "1p", Category: CategoryCoin, Label: "1 penny"},
	{ID: "2p", Category: CategoryCoin, Label: "2 pence"},
	{ID: "5p", Category: CategoryCoin, Label: "5 pence"},
	{ID: "10p", Category: CategoryCoin, Label: "10 pence"},
	{ID: "20p", Category: CategoryCoin, Label: "20 pence"},
	{ID: "50p", Category: CategoryCoin, Label: "50 pence"},
	{ID: "100p", Category: CategoryCoin, Label: "£1 coin"},
	{ID: "200p", Category: CategoryCoin, Label: "£2 coin"},
}

// All 全金種を登録順で返す
func (c *Catalog) All() []Denomination {
	out := make([]Denomination, len(c.denominations))
	copy(out, c.denominations)
	return out
}

// Lookup カテゴリとIDから金種を検索
func (c *Catalog) Lookup(category Category, id string) (Denomination, bool) {
	i, ok := c.index[category][id]
	if !ok {
		return Denomination{}, false
	}
	return c.denominations[i], true
}
