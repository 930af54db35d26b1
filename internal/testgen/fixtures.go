package testgen

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shishobooks/locallibrary/pkg/models"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func insert(t *testing.T, db *bun.DB, model any) {
	t.Helper()
	_, err := db.NewInsert().Model(model).Exec(context.Background())
	require.NoError(t, err)
}

func CreateAuthor(t *testing.T, db *bun.DB, firstName, familyName string) *models.Author {
	t.Helper()
	now := time.Now()
	author := &models.Author{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		UpdatedAt:  now,
		FirstName:  firstName,
		FamilyName: familyName,
	}
	insert(t, db, author)
	return author
}

func CreateGenre(t *testing.T, db *bun.DB, name string) *models.Genre {
	t.Helper()
	now := time.Now()
	genre := &models.Genre{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now, Name: name}
	insert(t, db, genre)
	return genre
}

// CreateBook creates a book by author tagged with genres.
func CreateBook(t *testing.T, db *bun.DB, title string, author *models.Author, genres ...*models.Genre) *models.Book {
	t.Helper()
	now := time.Now()
	book := &models.Book{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Title:     title,
		AuthorID:  author.ID,
		Summary:   "A summary of " + title,
		ISBN:      "9780000000000",
	}
	insert(t, db, book)
	for _, g := range genres {
		insert(t, db, &models.BookGenre{BookID: book.ID, GenreID: g.ID})
	}
	return book
}

func CreateBookInstance(t *testing.T, db *bun.DB, book *models.Book, imprint, status string) *models.BookInstance {
	t.Helper()
	now := time.Now()
	instance := &models.BookInstance{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		BookID:    book.ID,
		Imprint:   imprint,
		Status:    status,
		DueBack:   now,
	}
	insert(t, db, instance)
	return instance
}

// Count returns the number of rows of model's table.
func Count(t *testing.T, db *bun.DB, model any) int {
	t.Helper()
	n, err := db.NewSelect().Model(model).Count(context.Background())
	require.NoError(t, err)
	return n
}
