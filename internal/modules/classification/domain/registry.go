package domain

import (
	"context"
	"fmt"
	"log/slog"
)

// BindingLoader Binding1つ分のロード処理
type BindingLoader func(ctx context.Context) (*Binding, error)

// Registry ロード済みBindingの集合（構築後は読み取り専用）
type Registry struct {
	bindings   []*Binding
	byCategory map[Category][]*Binding
}

// NewRegistry 各ローダーを独立に実行してRegistryを構築
//
// 失敗したローダーはスキップする。1つもロードできなかった場合は ErrInitialization を返す。
func NewRegistry(ctx context.Context, loaders ...BindingLoader) (*Registry, error) {
	r := &Registry{byCategory: make(map[Category][]*Binding)}
	seen := make(map[Category]map[string]bool)

	for i, load := range loaders {
		b, err := load(ctx)
		if err != nil {
			slog.Warn("Skipping classifier binding",
				"index", i,
				"error", err,
			)
			continue
		}

		ids := seen[b.Category()]
		if ids == nil {
			ids = make(map[string]bool)
			seen[b.Category()] = ids
		}
		if ids[b.DenominationID()] {
			slog.Warn("Skipping duplicate classifier binding",
				"denomination", b.DenominationID(),
				"category", b.Category(),
			)
			continue
		}
		ids[b.DenominationID()] = true

		r.bindings = append(r.bindings, b)
		r.byCategory[b.Category()] = append(r.byCategory[b.Category()], b)
	}

	if len(r.bindings) == 0 {
		return nil, fmt.Errorf("%w: no classifier bindings could be loaded (%d attempted)", ErrInitialization, len(loaders))
	}

	return r, nil
}

// LoadCatalog カタログの各金種についてモデルをロードしRegistryを構築
func LoadCatalog(ctx context.Context, catalog *Catalog, loader ModelLoader) (*Registry, error) {
	denominations := catalog.All()
	loaders := make([]BindingLoader, 0, len(denominations))
	for _, d := range denominations {
		loaders = append(loaders, func(ctx context.Context) (*Binding, error) {
			model, err := loader.Load(ctx, d.ModelName)
			if err != nil {
				return nil, fmt.Errorf("load model %q for %s/%s: %w", d.ModelName, d.Category, d.ID, err)
			}
			return NewBinding(d, model)
		})
	}
	return NewRegistry(ctx, loaders...)
}

// BindingsFor 指定カテゴリのBindingを登録順で返す
func (r *Registry) BindingsFor(category Category) []*Binding {
	src := r.byCategory[category]
	out := make([]*Binding, len(src))
	copy(out, src)
	return out
}

// All 全Bindingを登録順で返す
func (r *Registry) All() []*Binding {
	out := make([]*Binding, len(r.bindings))
	copy(out, r.bindings)
	return out
}

// Len ロード済みBinding数
func (r *Registry) Len() int {
	return len(r.bindings)
}
