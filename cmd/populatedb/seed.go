package main

import (
	"context"
	"time"

	"github.com/Pallinder/go-randomdata"
	"github.com/pkg/errors"
	"github.com/shishobooks/locallibrary/pkg/authors"
	"github.com/shishobooks/locallibrary/pkg/bookinstances"
	"github.com/shishobooks/locallibrary/pkg/books"
	"github.com/shishobooks/locallibrary/pkg/genres"
	"github.com/shishobooks/locallibrary/pkg/models"
	"github.com/uptrace/bun"
)

type sample struct {
	authors   []*models.Author
	genres    []*models.Genre
	books     []*models.Book
	instances []*models.BookInstance
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// reset removes catalog rows children first so the foreign keys hold.
func reset(ctx context.Context, db *bun.DB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []any{
			(*models.BookInstance)(nil),
			(*models.BookGenre)(nil),
			(*models.Book)(nil),
			(*models.Genre)(nil),
			(*models.Author)(nil),
		} {
			if _, err := tx.NewDelete().Model(model).Where("1 = 1").Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	})
}

// seed loads a small catalog through the same services the handlers use.
func seed(ctx context.Context, db *bun.DB) (*sample, error) {
	authorService := authors.NewService(db)
	genreService := genres.NewService(db)
	bookService := books.NewService(db)
	bookInstanceService := bookinstances.NewService(db)

	s := &sample{
		authors: []*models.Author{
			{FirstName: "Patrick", FamilyName: "Rothfuss", DateOfBirth: date(1973, time.June, 6)},
			{FirstName: "Ben", FamilyName: "Bova", DateOfBirth: date(1932, time.November, 8)},
			{FirstName: "Isaac", FamilyName: "Asimov", DateOfBirth: date(1920, time.January, 2), DateOfDeath: date(1992, time.April, 6)},
			{FirstName: "Bob", FamilyName: "Billings"},
			{FirstName: "Jim", FamilyName: "Jones", DateOfBirth: date(1971, time.December, 16)},
		},
		genres: []*models.Genre{
			{Name: "Fantasy"},
			{Name: "Science Fiction"},
			{Name: "French Poetry"},
		},
	}
	for _, author := range s.authors {
		if err := authorService.CreateAuthor(ctx, author); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	for _, genre := range s.genres {
		if err := genreService.CreateGenre(ctx, genre); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	rothfuss, bova, billings := s.authors[0], s.authors[1], s.authors[3]
	fantasy, scifi := s.genres[0].ID, s.genres[1].ID

	titles := []struct {
		title, summary, isbn string
		author               *models.Author
		genreIDs             []string
	}{
		{"The Name of the Wind (The Kingkiller Chronicle, #1)",
			"I have stolen princesses back from sleeping barrow kings. I burned down the town of Trebon. I have spent the night with Felurian and left with both my sanity and my life.",
			"9781473211896", rothfuss, []string{fantasy}},
		{"The Wise Man's Fear (The Kingkiller Chronicle, #2)",
			"Picking up the tale of Kvothe Kingkiller once again, we follow him into exile, into political intrigue, courtship, adventure, love and magic.",
			"9788401352836", rothfuss, []string{fantasy}},
		{"The Slow Regard of Silent Things (Kingkiller Chronicle)",
			"Deep below the University, there is a dark place. Few people know of it: a broken web of ancient passageways and abandoned rooms.",
			"9780756411336", rothfuss, []string{fantasy}},
		{"Apes and Angels",
			"Humankind headed out to the stars not for conquest, nor exploration, nor even for curiosity. Humans went to the stars in a desperate crusade to save intelligent life wherever they found it.",
			"9780765379528", bova, []string{scifi}},
		{"Death Wave",
			"In Ben Bova's previous novel New Earth, Jordan Kell led the first human mission beyond the solar system.",
			"9780765379504", bova, []string{scifi}},
		{"Test Book 1", "Summary of test book 1", "ISBN111111", billings, []string{fantasy, scifi}},
		{"Test Book 2", "Summary of test book 2", "ISBN222222", billings, nil},
	}
	for _, t := range titles {
		book := &models.Book{Title: t.title, Summary: t.summary, ISBN: t.isbn, AuthorID: t.author.ID}
		if err := bookService.CreateBook(ctx, book, t.genreIDs); err != nil {
			return nil, errors.WithStack(err)
		}
		s.books = append(s.books, book)
	}

	copies := []struct {
		book    int
		imprint string
		status  string
		dueBack *time.Time
	}{
		{0, "London Gollancz, 2014.", models.BookInstanceStatusAvailable, nil},
		{1, "Gollancz, 2011.", models.BookInstanceStatusLoaned, date(2026, time.November, 1)},
		{2, "Gollancz, 2015.", models.BookInstanceStatusAvailable, nil},
		{3, "New York Tom Doherty Associates, 2016.", models.BookInstanceStatusAvailable, nil},
		{3, "New York Tom Doherty Associates, 2016.", models.BookInstanceStatusAvailable, nil},
		{3, "New York Tom Doherty Associates, 2016.", models.BookInstanceStatusAvailable, nil},
		{4, "New York, NY Tom Doherty Associates, LLC, 2015.", models.BookInstanceStatusAvailable, nil},
		{4, "New York, NY Tom Doherty Associates, LLC, 2015.", models.BookInstanceStatusMaintenance, nil},
		{4, "New York, NY Tom Doherty Associates, LLC, 2015.", models.BookInstanceStatusLoaned, nil},
		{0, "Imprint XXX2", "", nil},
		{1, "Imprint XXX3", "", nil},
	}
	for _, c := range copies {
		instance := &models.BookInstance{
			BookID:  s.books[c.book].ID,
			Imprint: c.imprint,
			Status:  c.status,
		}
		if c.dueBack != nil {
			instance.DueBack = *c.dueBack
		}
		if err := bookInstanceService.CreateBookInstance(ctx, instance); err != nil {
			return nil, errors.WithStack(err)
		}
		s.instances = append(s.instances, instance)
	}

	return s, nil
}

// randomAuthors adds n authors with made up names, born some time in the
// twentieth century.
func randomAuthors(ctx context.Context, db *bun.DB, n int) ([]*models.Author, error) {
	authorService := authors.NewService(db)
	out := make([]*models.Author, 0, n)
	for i := 0; i < n; i++ {
		author := &models.Author{
			FirstName:   randomdata.FirstName(randomdata.RandomGender),
			FamilyName:  randomdata.LastName(),
			DateOfBirth: date(randomdata.Number(1900, 2000), time.Month(randomdata.Number(1, 13)), randomdata.Number(1, 29)),
		}
		if err := authorService.CreateAuthor(ctx, author); err != nil {
			return nil, errors.WithStack(err)
		}
		out = append(out, author)
	}
	return out, nil
}
