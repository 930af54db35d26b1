package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID         string       `bun:",pk" json:"id"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	Title      string       `json:"title"`
	AuthorID   string       `json:"author_id"`
	Author     *Author      `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	Summary    string       `json:"summary"`
	ISBN       string       `bun:"isbn" json:"isbn"`
	BookGenres []*BookGenre `bun:"rel:has-many,join:id=book_id" json:"book_genres,omitempty"`
}

// Genres returns the genres loaded through BookGenres. Associations whose
// genre no longer resolves are skipped.
func (b *Book) Genres() []*Genre {
	genres := make([]*Genre, 0, len(b.BookGenres))
	for _, bg := range b.BookGenres {
		if bg.Genre != nil {
			genres = append(genres, bg.Genre)
		}
	}
	return genres
}

// GenreIDs returns the ids of every genre the book is tagged with, whether or
// not the genre itself was loaded.
func (b *Book) GenreIDs() []string {
	ids := make([]string, 0, len(b.BookGenres))
	for _, bg := range b.BookGenres {
		ids = append(ids, bg.GenreID)
	}
	return ids
}

func (b *Book) URL() string {
	return "/catalog/book/" + b.ID
}
