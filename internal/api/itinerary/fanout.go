package itinerary

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"
)

// FanOutOptions bounds a fan-out. Zero values mean unbounded.
type FanOutOptions struct {
	Limit       int
	ItemTimeout time.Duration
}

// PanicError is recorded for an item whose operation panicked.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Outcome pairs an item with what its operation produced.
type Outcome[T, R any] struct {
	Item   T
	Result R
	Err    error
}

// FanOut runs fn for every item concurrently and waits for all of them.
// A failing or panicking item never cancels its siblings; its error is
// recorded in its Outcome. Outcomes are returned in item order.
func FanOut[T, R any](ctx context.Context, items []T, opts FanOutOptions, fn func(ctx context.Context, item T) (R, error)) []Outcome[T, R] {
	outcomes := make([]Outcome[T, R], len(items))

	var g errgroup.Group
	if opts.Limit > 0 {
		g.SetLimit(opts.Limit)
	}

	for i, item := range items {
		outcomes[i].Item = item
		g.Go(func() error {
			itemCtx, cancel := ctx, context.CancelFunc(func() {})
			if opts.ItemTimeout > 0 {
				itemCtx, cancel = context.WithTimeout(ctx, opts.ItemTimeout)
			}
			defer cancel()

			defer func() {
				if r := recover(); r != nil {
					outcomes[i].Err = &PanicError{Value: r, Stack: debug.Stack()}
				}
			}()

			outcomes[i].Result, outcomes[i].Err = fn(itemCtx, item)
			// siblings keep running
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}
