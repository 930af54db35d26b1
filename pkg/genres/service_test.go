package genres

import (
	"context"
	"testing"

	"github.com/shishobooks/locallibrary/internal/testgen"
	"github.com/shishobooks/locallibrary/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_UpdateGenre(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testgen.NewDB(t)
	svc := NewService(db)
	genre := testgen.CreateGenre(t, db, "Scifi")

	// spare capacity in the caller's slice must not be written to
	columns := make([]string, 1, 4)
	columns[0] = "name"
	backing := columns[:2]

	genre.Name = "Science Fiction"
	require.NoError(t, svc.UpdateGenre(ctx, genre, UpdateGenreOptions{Columns: columns}))
	assert.Equal(t, []string{"name", ""}, backing)

	got, err := svc.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &genre.ID})
	require.NoError(t, err)
	assert.Equal(t, "Science Fiction", got.Name)

	t.Run("missing genre is not found", func(tt *testing.T) {
		err := svc.UpdateGenre(ctx, &models.Genre{ID: "nope", Name: "x"}, UpdateGenreOptions{Columns: []string{"name"}})
		require.Error(tt, err)
		assert.Equal(tt, "Genre not found.", err.Error())
	})
}
