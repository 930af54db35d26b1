package join

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/locallibrary/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	t.Parallel()

	t.Run("collects every result", func(tt *testing.T) {
		var a, b string
		err := All(context.Background(),
			func(context.Context) error { a = "genre"; return nil },
			func(context.Context) error { b = "books"; return nil },
		)
		require.NoError(tt, err)
		assert.Equal(tt, "genre", a)
		assert.Equal(tt, "books", b)
	})

	t.Run("no lookups is fine", func(tt *testing.T) {
		assert.NoError(tt, All(context.Background()))
	})

	t.Run("starts lookups concurrently", func(tt *testing.T) {
		// Each lookup waits for the other to start, so this only finishes if
		// both are running at the same time.
		var wg sync.WaitGroup
		wg.Add(2)
		lookup := func(ctx context.Context) error {
			wg.Done()
			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-time.After(5 * time.Second):
				return errors.New("lookups ran one after the other")
			}
		}
		assert.NoError(tt, All(context.Background(), lookup, lookup))
	})

	t.Run("returns the first error and cancels the rest", func(tt *testing.T) {
		var cancelled atomic.Bool
		err := All(context.Background(),
			func(context.Context) error { return errcodes.NotFound("Genre") },
			func(ctx context.Context) error {
				select {
				case <-ctx.Done():
					cancelled.Store(true)
					return ctx.Err()
				case <-time.After(5 * time.Second):
					return nil
				}
			},
		)
		require.Error(tt, err)
		assert.True(tt, errcodes.IsNotFound(err))
		assert.True(tt, cancelled.Load())
	})

	t.Run("keeps the kind of storage errors", func(tt *testing.T) {
		err := All(context.Background(),
			func(context.Context) error { return errors.New("disk I/O error") },
		)
		assert.Equal(tt, errcodes.KindStorage, errcodes.KindOf(err))
		assert.False(tt, errcodes.IsNotFound(err))
	})
}

func TestPair(t *testing.T) {
	t.Parallel()

	name, count, err := Pair(context.Background(),
		func(context.Context) (string, error) { return "Fantasy", nil },
		func(context.Context) (int, error) { return 3, nil },
	)
	require.NoError(t, err)
	assert.Equal(t, "Fantasy", name)
	assert.Equal(t, 3, count)

	name, count, err = Pair(context.Background(),
		func(context.Context) (string, error) { return "Fantasy", nil },
		func(context.Context) (int, error) { return 3, errors.New("boom") },
	)
	assert.EqualError(t, err, "boom")
	assert.Empty(t, name)
	assert.Zero(t, count)
}
