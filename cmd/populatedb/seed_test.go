package main

import (
	"context"
	"testing"

	"github.com/shishobooks/locallibrary/internal/testgen"
	"github.com/shishobooks/locallibrary/pkg/catalog"
	"github.com/shishobooks/locallibrary/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testgen.NewDB(t)

	s, err := seed(ctx, db)
	require.NoError(t, err)

	counts, err := catalog.NewService(db).Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(s.authors), counts.Authors)
	assert.Equal(t, len(s.genres), counts.Genres)
	assert.Equal(t, len(s.books), counts.Books)
	assert.Equal(t, len(s.instances), counts.BookInstances)
	assert.Equal(t, 6, counts.AvailableBookInstances)

	// copies without a status start in maintenance
	assert.Equal(t, models.BookInstanceStatusMaintenance, s.instances[len(s.instances)-1].Status)
}

func TestReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testgen.NewDB(t)

	_, err := seed(ctx, db)
	require.NoError(t, err)
	require.NoError(t, reset(ctx, db))

	assert.Equal(t, 0, testgen.Count(t, db, (*models.Author)(nil)))
	assert.Equal(t, 0, testgen.Count(t, db, (*models.BookGenre)(nil)))
	assert.Equal(t, 0, testgen.Count(t, db, (*models.BookInstance)(nil)))

	// loading again after a reset doesn't trip the genre name index
	_, err = seed(ctx, db)
	require.NoError(t, err)
}

func TestRandomAuthors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testgen.NewDB(t)

	added, err := randomAuthors(ctx, db, 4)
	require.NoError(t, err)
	require.Len(t, added, 4)
	for _, author := range added {
		assert.NotEmpty(t, author.ID)
		assert.NotEmpty(t, author.FullName())
		require.NotNil(t, author.DateOfBirth)
		assert.GreaterOrEqual(t, author.DateOfBirth.Year(), 1900)
		assert.Less(t, author.DateOfBirth.Year(), 2000)
	}
	assert.Equal(t, 4, testgen.Count(t, db, (*models.Author)(nil)))
}
