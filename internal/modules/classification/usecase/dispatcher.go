package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"denomination-vision-app/internal/modules/classification/domain"
)

// DefaultWorkers 1リクエストあたりの同時推論数のデフォルト値
const DefaultWorkers = 4

// DispatcherOptions Dispatcherの設定
type DispatcherOptions struct {
	// Workers 同時に実行する推論の上限
	Workers int
	// BindingTimeout 分類器1つあたりのタイムアウト（0は無制限）
	BindingTimeout time.Duration
}

// Dispatcher 1枚のフレームを指定カテゴリの全分類器に配り、最良の結果に集約する
type Dispatcher struct {
	registry       *domain.Registry
	workers        int
	bindingTimeout time.Duration
}

// Outcome 非同期分類の結果
type Outcome struct {
	Result domain.Result
	Err    error
}

// NewDispatcher 新しいDispatcherを作成
//
// registry が nil の場合（初期化失敗）は全リクエストを拒否する。
func NewDispatcher(registry *domain.Registry, opts DispatcherOptions) *Dispatcher {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Dispatcher{
		registry:       registry,
		workers:        workers,
		bindingTimeout: opts.BindingTimeout,
	}
}

// Available 分類が実行可能か
func (d *Dispatcher) Available() bool {
	return d != nil && d.registry != nil
}

// Classify フレームを分類する
//
// 全分類器の完了を待ってから結果を返す。個々の分類器の失敗は記録のみで、票から除外する。
// 全分類器が失敗した場合は Inconclusive を立てた一致なしを返す。
func (d *Dispatcher) Classify(ctx context.Context, frame *domain.Frame, category domain.Category) (domain.Result, error) {
	if !d.Available() {
		return domain.NoMatch(), fmt.Errorf("%w: classifier registry is not available", domain.ErrInitialization)
	}
	if frame == nil {
		return domain.NoMatch(), fmt.Errorf("%w: frame is nil", domain.ErrInvalidInput)
	}
	if !category.Valid() {
		return domain.NoMatch(), fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, category)
	}

	bindings := d.registry.BindingsFor(category)
	if len(bindings) == 0 {
		slog.Warn("No models available for category",
			"category", category,
			"error", domain.ErrNoModels,
		)
		return domain.NoMatch(), nil
	}

	start := time.Now()

	// 票は登録順のスロットに格納し、同点時の決定性を保つ
	slots := make([]*domain.Vote, len(bindings))
	var completed atomic.Int32

	var g errgroup.Group
	g.SetLimit(d.workers)
	for i, b := range bindings {
		g.Go(func() error {
			vote, ok, err := d.run(ctx, b, frame)
			if err != nil {
				slog.Warn("Classifier inference failed",
					"denomination", b.DenominationID(),
					"category", b.Category(),
					"error", err,
				)
				return nil
			}
			completed.Add(1)
			if ok {
				slots[i] = &vote
			}
			return nil
		})
	}
	// タスクはエラーを返さない
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return domain.NoMatch(), fmt.Errorf("classification aborted: %w", err)
	}

	votes := make([]domain.Vote, 0, len(slots))
	for _, v := range slots {
		if v != nil {
			votes = append(votes, *v)
		}
	}

	result := domain.Reduce(votes)
	if completed.Load() == 0 {
		result.Inconclusive = true
		slog.Warn("All classifiers failed",
			"category", category,
			"bindings", len(bindings),
		)
	}
	slog.Debug("Classification completed",
		"category", category,
		"bindings", len(bindings),
		"votes", len(votes),
		"completed", completed.Load(),
		"denomination", result.DenominationID,
		"confidence", result.Confidence,
		"duration", time.Since(start),
	)
	return result, nil
}

// ClassifyAsync Classifyを別goroutineで実行し、完了時に結果を1件送信する
func (d *Dispatcher) ClassifyAsync(ctx context.Context, frame *domain.Frame, category domain.Category) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		result, err := d.Classify(ctx, frame, category)
		ch <- Outcome{Result: result, Err: err}
	}()
	return ch
}

// Bindings ロード済みの分類器一覧
func (d *Dispatcher) Bindings() []*domain.Binding {
	if !d.Available() {
		return nil
	}
	return d.registry.All()
}

// run 分類器1つ分の推論（パニックも推論失敗として扱う）
func (d *Dispatcher) run(ctx context.Context, b *domain.Binding, frame *domain.Frame) (vote domain.Vote, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			vote, ok = domain.Vote{}, false
			err = fmt.Errorf("%w: %s: panic: %v", domain.ErrInference, b.DenominationID(), r)
		}
	}()

	if d.bindingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.bindingTimeout)
		defer cancel()
	}

	return b.Vote(ctx, frame)
}
