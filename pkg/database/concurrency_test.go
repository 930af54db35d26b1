package database_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shishobooks/locallibrary/pkg/config"
	"github.com/shishobooks/locallibrary/pkg/database"
	"github.com/shishobooks/locallibrary/pkg/migrations"
	"github.com/shishobooks/locallibrary/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// newFileDB opens a migrated database in a temp file. Retries and the busy
// timeout are turned down so lock errors would surface.
func newFileDB(t *testing.T) *bun.DB {
	t.Helper()
	cfg := config.NewForTest()
	cfg.DatabaseFilePath = filepath.Join(t.TempDir(), "catalog.db")
	cfg.DatabaseMaxRetries = 0
	cfg.DatabaseBusyTimeout = time.Millisecond

	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)
	return db
}

func TestConcurrentGenreInserts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newFileDB(t)

	const workers = 10
	const perWorker = 20

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				genre := &models.Genre{ID: uuid.NewString(), Name: fmt.Sprintf("Genre %d-%d", w, i)}
				if _, err := db.NewInsert().Model(genre).Exec(ctx); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	n, err := db.NewSelect().Model((*models.Genre)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker, n)
}

func TestConcurrentReadsDuringWrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newFileDB(t)

	author := &models.Author{ID: uuid.NewString(), FirstName: "Isaac", FamilyName: "Asimov"}
	_, err := db.NewInsert().Model(author).Exec(ctx)
	require.NoError(t, err)

	const ops = 50

	var wg sync.WaitGroup
	errs := make(chan error, 2*ops)
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < ops; i++ {
			book := &models.Book{ID: uuid.NewString(), Title: fmt.Sprintf("Foundation %d", i), AuthorID: author.ID, Summary: "s", ISBN: "i"}
			if _, err := db.NewInsert().Model(book).Exec(ctx); err != nil {
				errs <- err
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < ops; i++ {
			var books []*models.Book
			if err := db.NewSelect().Model(&books).Relation("Author").Scan(ctx); err != nil {
				errs <- err
			}
		}
	}()
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
