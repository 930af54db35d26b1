package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthor_FullName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		first, family, want string
	}{
		{"Jane", "Austen", "Jane Austen"},
		{"Jane", "", ""},
		{"", "Austen", ""},
		{"", "", ""},
	}
	for _, tc := range tests {
		a := &Author{FirstName: tc.first, FamilyName: tc.family}
		assert.Equal(t, tc.want, a.FullName(), "%q %q", tc.first, tc.family)
	}
}

func TestAuthor_Lifespan(t *testing.T) {
	t.Parallel()

	born := time.Date(1775, time.December, 16, 0, 0, 0, 0, time.UTC)
	died := time.Date(1817, time.July, 18, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "1775 - 1817", (&Author{DateOfBirth: &born, DateOfDeath: &died}).Lifespan())
	assert.Equal(t, "1775 - ", (&Author{DateOfBirth: &born}).Lifespan())
	assert.Equal(t, " - ", (&Author{}).Lifespan())
	assert.Equal(t, "1817-07-18", (&Author{DateOfDeath: &died}).DateOfDeathForm())
	assert.Equal(t, "", (&Author{}).DateOfBirthForm())
}

func TestURLs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/catalog/author/a1", (&Author{ID: "a1"}).URL())
	assert.Equal(t, "/catalog/genre/g1", (&Genre{ID: "g1"}).URL())
	assert.Equal(t, "/catalog/book/b1", (&Book{ID: "b1"}).URL())
	assert.Equal(t, "/catalog/bookinstance/bi1", (&BookInstance{ID: "bi1"}).URL())
}

func TestBookInstance_DueBack(t *testing.T) {
	t.Parallel()

	bi := &BookInstance{DueBack: time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)}
	assert.Equal(t, "October 14th, 2026", bi.DueBackFormatted())
	assert.Equal(t, "2026-10-14", bi.DueBackFormattedForm())

	bi.DueBack = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "March 1st, 2026", bi.DueBackFormatted())
}

func TestBook_Genres(t *testing.T) {
	t.Parallel()

	b := &Book{BookGenres: []*BookGenre{
		{GenreID: "g1", Genre: &Genre{ID: "g1", Name: "Romance"}},
		{GenreID: "g2"},
	}}
	assert.Equal(t, []string{"g1", "g2"}, b.GenreIDs())
	genres := b.Genres()
	assert.Len(t, genres, 1)
	assert.Equal(t, "Romance", genres[0].Name)
}
