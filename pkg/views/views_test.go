package views

import (
	"bytes"
	"testing"
	"time"

	"github.com/shishobooks/locallibrary/pkg/errcodes"
	"github.com/shishobooks/locallibrary/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ParsesEveryView(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)

	for _, name := range []string{
		"index", "error",
		"genre_list", "genre_detail", "genre_form", "genre_delete",
		"bookinstance_list", "bookinstance_detail", "bookinstance_form", "bookinstance_delete",
		"author_list", "author_detail", "author_form", "author_delete",
		"book_list", "book_detail", "book_form", "book_delete",
	} {
		assert.True(t, r.Has(name), name)
	}
	assert.False(t, r.Has("layout"))
}

func TestRender(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)

	t.Run("escaped values aren't escaped twice", func(tt *testing.T) {
		var buf bytes.Buffer
		err := r.Render(&buf, "genre_list", Data{
			"title":      "Genre List",
			"genre_list": []*models.Genre{{ID: "g1", Name: "Sci-Fi &amp; Fantasy"}},
		}, nil)
		require.NoError(tt, err)
		out := buf.String()
		assert.Contains(tt, out, "<title>Genre List</title>")
		assert.Contains(tt, out, `<a href="/catalog/genre/g1">Sci-Fi &amp; Fantasy</a>`)
		assert.NotContains(tt, out, "&amp;amp;")
	})

	t.Run("form lists its errors and keeps the submitted value", func(tt *testing.T) {
		var buf bytes.Buffer
		err := r.Render(&buf, "genre_form", Data{
			"title":  "Create Genre",
			"genre":  &models.Genre{Name: "&lt;b&gt;"},
			"errors": []errcodes.FieldError{{Field: "name", Message: "Genre name required"}},
		}, nil)
		require.NoError(tt, err)
		out := buf.String()
		assert.Contains(tt, out, `value="&lt;b&gt;"`)
		assert.Contains(tt, out, "<li>Genre name required</li>")
	})

	t.Run("book form checks the selected genres", func(tt *testing.T) {
		var buf bytes.Buffer
		err := r.Render(&buf, "book_form", Data{
			"title":           "Create Book",
			"book":            &models.Book{Title: "Emma"},
			"authors":         []*models.Author{{ID: "a1", FirstName: "Jane", FamilyName: "Austen"}},
			"selected_author": "a1",
			"genres":          []*models.Genre{{ID: "g1", Name: "Romance"}, {ID: "g2", Name: "Horror"}},
			"selected_genres": []string{"g1"},
		}, nil)
		require.NoError(tt, err)
		out := buf.String()
		assert.Contains(tt, out, `value="g1" checked`)
		assert.NotContains(tt, out, `value="g2" checked`)
		assert.Contains(tt, out, `<option value="a1" selected>Jane Austen</option>`)
	})

	t.Run("book instance list shows due dates for unavailable copies", func(tt *testing.T) {
		var buf bytes.Buffer
		err := r.Render(&buf, "bookinstance_list", Data{
			"title": "Book Instance List",
			"bookinstance_list": []*models.BookInstance{
				{
					ID:      "bi1",
					Book:    &models.Book{ID: "b1", Title: "Emma"},
					Imprint: "Penguin",
					Status:  models.BookInstanceStatusLoaned,
					DueBack: time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC),
				},
			},
		}, nil)
		require.NoError(tt, err)
		assert.Contains(tt, buf.String(), "(Due: October 14th, 2026)")
	})

	t.Run("error view", func(tt *testing.T) {
		var buf bytes.Buffer
		err := r.Render(&buf, "error", Data{
			"title":       "Not Found",
			"message":     "Genre not found.",
			"status_code": 404,
		}, nil)
		require.NoError(tt, err)
		assert.Contains(tt, buf.String(), "Genre not found.")
	})

	t.Run("unknown view", func(tt *testing.T) {
		var buf bytes.Buffer
		err := r.Render(&buf, "nope", Data{}, nil)
		assert.ErrorContains(tt, err, `unknown view "nope"`)
	})
}
