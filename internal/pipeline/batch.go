package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when no positive limit is configured.
const DefaultConcurrency = 8

// BatchOption configures Map.
type BatchOption func(*batchConfig)

type batchConfig struct {
	concurrency int
	onPanic     func(index int, recovered any) any
}

// WithConcurrency sets the maximum number of items processed at once.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(c *batchConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// OnPanic makes a panic in fn a per-item failure: the result for the item
// at index becomes fallback(index, recovered) and the other items go on.
// fallback must return the result type of the Map call it is passed to.
func OnPanic[R any](fallback func(index int, recovered any) R) BatchOption {
	return func(c *batchConfig) {
		c.onPanic = func(index int, recovered any) any {
			return fallback(index, recovered)
		}
	}
}

// PanicError is returned by Map when fn panics and no OnPanic fallback is
// set.
type PanicError struct {
	Index int
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("item %d panicked: %v", e.Index, e.Value)
}

// Map calls fn for every item with bounded concurrency and returns the
// results in input order. fn must record per-item failures in its result.
// Map fails when ctx is cancelled, or with a *PanicError when fn panics and
// no OnPanic fallback is set.
func Map[T, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) R, opts ...BatchOption) ([]R, error) {
	cfg := batchConfig{concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(&cfg)
	}

	results := make([]R, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)

	for i, item := range items {
		g.Go(func() (err error) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if cfg.onPanic == nil {
					err = &PanicError{Index: i, Value: p, Stack: debug.Stack()}
					return
				}
				if v, ok := cfg.onPanic(i, p).(R); ok {
					results[i] = v
				}
			}()

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			// Each goroutine owns results[i].
			results[i] = fn(ctx, item)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
