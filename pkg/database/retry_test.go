package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errLocked = errors.New("database is locked")

func TestIsBusyError(t *testing.T) {
	t.Parallel()

	busy := []string{
		"database is locked",
		"database table is locked",
		"SQLITE_BUSY",
		"SQLITE_LOCKED",
		"error (5): database busy",
		"error (6): database locked",
	}
	for _, msg := range busy {
		assert.True(t, isBusyError(errors.New(msg)), msg)
	}

	assert.False(t, isBusyError(nil))
	assert.False(t, isBusyError(errors.New("connection refused")))
	assert.False(t, isBusyError(errors.New("UNIQUE constraint failed")))
}

func TestBackoff_Do(t *testing.T) {
	t.Parallel()

	fast := backoff{retries: 5, base: time.Millisecond, ceiling: 5 * time.Millisecond}

	t.Run("stops after the first success", func(t *testing.T) {
		attempts := 0
		err := fast.do(context.Background(), func() error {
			attempts++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries busy errors until they clear", func(t *testing.T) {
		attempts := 0
		err := fast.do(context.Background(), func() error {
			attempts++
			if attempts < 3 {
				return errLocked
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("returns other errors right away", func(t *testing.T) {
		attempts := 0
		err := fast.do(context.Background(), func() error {
			attempts++
			return errors.New("connection refused")
		})
		assert.EqualError(t, err, "connection refused")
		assert.Equal(t, 1, attempts)
	})

	t.Run("gives up after the last retry", func(t *testing.T) {
		attempts := 0
		b := fast
		b.retries = 3
		err := b.do(context.Background(), func() error {
			attempts++
			return errLocked
		})
		assert.ErrorIs(t, err, errLocked)
		assert.Equal(t, 4, attempts)
	})

	t.Run("zero retries means a single attempt", func(t *testing.T) {
		attempts := 0
		b := fast
		b.retries = 0
		err := b.do(context.Background(), func() error {
			attempts++
			return errLocked
		})
		assert.ErrorIs(t, err, errLocked)
		assert.Equal(t, 1, attempts)
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		attempts := 0
		b := newBackoff(10)
		err := b.do(ctx, func() error {
			attempts++
			return errLocked
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	})
}

func TestBackoff_Delay(t *testing.T) {
	t.Parallel()

	b := newBackoff(10)
	first := b.delay(0)
	assert.GreaterOrEqual(t, first, 50*time.Millisecond)
	assert.LessOrEqual(t, first, 63*time.Millisecond)
	assert.Equal(t, 2*time.Second, b.delay(6))
	assert.Equal(t, 2*time.Second, b.delay(62))
}

func TestRetry(t *testing.T) {
	t.Parallel()

	attempts := 0
	n, err := retry(context.Background(), backoff{retries: 2, base: time.Millisecond, ceiling: time.Millisecond}, func() (int, error) {
		attempts++
		if attempts == 1 {
			return 0, errLocked
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.Equal(t, 2, attempts)
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: genres.name (2067)")))
	assert.False(t, IsUniqueViolation(errors.New("database is locked")))
	assert.False(t, IsUniqueViolation(errors.New("NOT NULL constraint failed: genres.name")))
}
