// Package piter adapts a parallel iteration over a slice to a bar: each
// worker's completed item increments the bar by one, so progress reflects
// work actually finished rather than merely dispatched.
package piter

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// barLike is the sliver of *barline.Bar this package needs.
type barLike interface {
	Inc(delta uint64) error
	FinishUsingStyle() error
}

// Each runs fn over every item in items, concurrency at a time, via
// golang.org/x/sync/errgroup, incrementing bar by one per completed item.
// The first non-nil error from any fn cancels ctx for the rest and is
// returned; bar's finish policy runs once all workers have returned, and
// only when every item succeeded.
func Each[T any](ctx context.Context, items []T, concurrency int, bar barLike, fn func(context.Context, T) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for _, item := range items {
		item := item
		g.Go(func() error {
			if err := fn(gctx, item); err != nil {
				return err
			}
			return bar.Inc(1)
		})
	}
	err := g.Wait()
	if err == nil {
		bar.FinishUsingStyle()
	}
	return err
}
