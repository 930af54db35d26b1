// Package join runs independent lookups concurrently and waits for all of
// them, which is how detail and delete pages combine an entity with the
// things that depend on it.
package join

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Lookup is a single fetch. It should store its result in a variable owned by
// the caller and stop early once ctx is done.
type Lookup func(ctx context.Context) error

// All starts every lookup at once and waits for them to finish. The first
// error cancels the context handed to the remaining lookups and is returned;
// whatever the other lookups stored is then partial and should be ignored.
func All(ctx context.Context, lookups ...Lookup) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, lookup := range lookups {
		g.Go(func() error {
			return lookup(gctx)
		})
	}
	return errors.WithStack(g.Wait())
}

// Pair runs two typed lookups concurrently. On error both results are zero.
func Pair[A, B any](ctx context.Context, a func(context.Context) (A, error), b func(context.Context) (B, error)) (A, B, error) {
	var (
		ra A
		rb B
	)
	err := All(ctx,
		func(ctx context.Context) error {
			var err error
			ra, err = a(ctx)
			return err
		},
		func(ctx context.Context) error {
			var err error
			rb, err = b(ctx)
			return err
		},
	)
	if err != nil {
		var za A
		var zb B
		return za, zb, err
	}
	return ra, rb, nil
}
