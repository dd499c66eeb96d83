package domain

import (
	"fmt"
	"strings"
)

// Category 分類器のグループ（紙幣か硬貨か）
type Category string

const (
	CategoryBill Category = "bill"
	CategoryCoin Category = "coin"
)

// Categories サポートしているカテゴリ一覧
func Categories() []Category {
	return []Category{CategoryBill, CategoryCoin}
}

// ParseCategory 文字列からカテゴリを解析
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
	}
	return c, nil
}

// Valid サポート対象のカテゴリか判定
func (c Category) Valid() bool {
	return c == CategoryBill || c == CategoryCoin
}

func (c Category) String() string {
	return string(c)
}
