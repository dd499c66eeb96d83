package domain

import (
	"context"
	"errors"
	"testing"
)

func staticLoader(id string, category Category) BindingLoader {
	return func(ctx context.Context) (*Binding, error) {
		return NewBinding(Denomination{ID: id, Category: category}, &MockModel{})
	}
}

func failingLoader(msg string) BindingLoader {
	return func(ctx context.Context) (*Binding, error) {
		return nil, errors.New(msg)
	}
}

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name      string
		loaders   []BindingLoader
		wantErr   bool
		wantLen   int
		wantCoins []string
		wantBills []string
	}{
		{
			name: "正常系: 全件ロード",
			loaders: []BindingLoader{
				staticLoader("20b", CategoryBill),
				staticLoader("1p", CategoryCoin),
				staticLoader("50b", CategoryBill),
			},
			wantLen:   3,
			wantCoins: []string{"1p"},
			wantBills: []string{"20b", "50b"},
		},
		{
			name: "正常系: 一部失敗はスキップ",
			loaders: []BindingLoader{
				staticLoader("1p", CategoryCoin),
				failingLoader("model file missing"),
				staticLoader("5p", CategoryCoin),
			},
			wantLen:   2,
			wantCoins: []string{"1p", "5p"},
		},
		{
			name: "正常系: 同一カテゴリ内の重複IDは後勝ちしない",
			loaders: []BindingLoader{
				staticLoader("1p", CategoryCoin),
				staticLoader("1p", CategoryCoin),
			},
			wantLen:   1,
			wantCoins: []string{"1p"},
		},
		{
			name: "異常系: 全件失敗",
			loaders: []BindingLoader{
				failingLoader("a"),
				failingLoader("b"),
			},
			wantErr: true,
		},
		{
			name:    "異常系: ローダーなし",
			loaders: nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry(context.Background(), tt.loaders...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewRegistry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInitialization) {
					t.Errorf("error = %v, want ErrInitialization", err)
				}
				if r != nil {
					t.Error("registry should be nil on failure")
				}
				return
			}

			if r.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", r.Len(), tt.wantLen)
			}
			assertIDs(t, r.BindingsFor(CategoryCoin), tt.wantCoins)
			assertIDs(t, r.BindingsFor(CategoryBill), tt.wantBills)
		})
	}
}

func assertIDs(t *testing.T, bindings []*Binding, want []string) {
	t.Helper()
	if len(bindings) != len(want) {
		t.Fatalf("got %d bindings, want %d", len(bindings), len(want))
	}
	for i, b := range bindings {
		if b.DenominationID() != want[i] {
			t.Errorf("bindings[%d] = %s, want %s", i, b.DenominationID(), want[i])
		}
	}
}

func TestRegistry_BindingsForReturnsCopy(t *testing.T) {
	r, err := NewRegistry(context.Background(),
		staticLoader("1p", CategoryCoin),
		staticLoader("5p", CategoryCoin),
	)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	got := r.BindingsFor(CategoryCoin)
	got[0] = nil

	if r.BindingsFor(CategoryCoin)[0] == nil {
		t.Error("modifying the returned slice must not affect the registry")
	}
}

// MockModelLoader モックローダー
type MockModelLoader struct {
	LoadFunc func(ctx context.Context, name string) (Model, error)
}

func (m *MockModelLoader) Load(ctx context.Context, name string) (Model, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, name)
	}
	return &MockModel{}, nil
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := NewCatalog([]Denomination{
		{ID: "1p", Category: CategoryCoin},
		{ID: "5p", Category: CategoryCoin},
		{ID: "20b", Category: CategoryBill},
	})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	t.Run("正常系: ロード失敗したモデルを除外", func(t *testing.T) {
		var requested []string
		loader := &MockModelLoader{
			LoadFunc: func(ctx context.Context, name string) (Model, error) {
				requested = append(requested, name)
				if name == "coin-5p" {
					return nil, errors.New("not found")
				}
				return &MockModel{}, nil
			},
		}

		r, err := LoadCatalog(context.Background(), catalog, loader)
		if err != nil {
			t.Fatalf("LoadCatalog() error = %v", err)
		}
		if len(requested) != 3 {
			t.Errorf("requested %v, want 3 loads", requested)
		}
		assertIDs(t, r.BindingsFor(CategoryCoin), []string{"1p"})
		assertIDs(t, r.BindingsFor(CategoryBill), []string{"20b"})
	})

	t.Run("異常系: 全モデルのロード失敗", func(t *testing.T) {
		loader := &MockModelLoader{
			LoadFunc: func(ctx context.Context, name string) (Model, error) {
				return nil, errors.New("unreachable")
			},
		}

		_, err := LoadCatalog(context.Background(), catalog, loader)
		if !errors.Is(err, ErrInitialization) {
			t.Errorf("LoadCatalog() error = %v, want ErrInitialization", err)
		}
	})
}
