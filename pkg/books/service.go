package books

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shishobooks/locallibrary/pkg/errcodes"
	"github.com/shishobooks/locallibrary/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID *string
}

type UpdateBookOptions struct {
	Columns []string
	// GenreIDs replaces the book's genres when it's non-nil.
	GenreIDs *[]string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateBook inserts book with a fresh id and tags it with genreIDs.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book, genreIDs []string) error {
	id, err := uuid.NewRandom()
	if err != nil {
		return errors.WithStack(err)
	}
	book.ID = id.String()

	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.
			NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return errors.WithStack(insertGenres(ctx, tx, book.ID, genreIDs))
	})
}

// RetrieveBook returns a book with its author and genres.
func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book).
		Relation("Author").
		Relation("BookGenres", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("bg.genre_id ASC")
		}).
		Relation("BookGenres.Genre")

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// ListBooks returns every book by title with its author.
func (svc *Service) ListBooks(ctx context.Context) ([]*models.Book, error) {
	books := []*models.Book{}

	err := svc.db.
		NewSelect().
		Model(&books).
		Relation("Author").
		Order("b.title ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return books, nil
}

// ListBookTitles returns every book by title with only its id and title
// loaded, for pickers.
func (svc *Service) ListBookTitles(ctx context.Context) ([]*models.Book, error) {
	books := []*models.Book{}

	err := svc.db.
		NewSelect().
		Model(&books).
		Column("id", "title").
		Order("b.title ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return books, nil
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 && opts.GenreIDs == nil {
		return nil
	}

	book.UpdatedAt = time.Now()
	columns := append(append([]string{}, opts.Columns...), "updated_at")

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.
			NewUpdate().
			Model(book).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errcodes.NotFound("Book")
		}

		if opts.GenreIDs == nil {
			return nil
		}
		_, err = tx.NewDelete().
			Model((*models.BookGenre)(nil)).
			Where("book_id = ?", book.ID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return errors.WithStack(insertGenres(ctx, tx, book.ID, *opts.GenreIDs))
	})
}

// DeleteBook deletes a book and its genre associations. Its copies are left
// alone, so callers check for them first.
func (svc *Service) DeleteBook(ctx context.Context, bookID string) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.BookGenre)(nil)).
			Where("book_id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", bookID).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// ListBookInstances returns the copies of a book.
func (svc *Service) ListBookInstances(ctx context.Context, bookID string) ([]*models.BookInstance, error) {
	instances := []*models.BookInstance{}

	err := svc.db.NewSelect().
		Model(&instances).
		Where("bi.book_id = ?", bookID).
		Order("bi.imprint ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return instances, nil
}

func insertGenres(ctx context.Context, tx bun.Tx, bookID string, genreIDs []string) error {
	seen := map[string]bool{}
	bookGenres := make([]*models.BookGenre, 0, len(genreIDs))
	for _, id := range genreIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		bookGenres = append(bookGenres, &models.BookGenre{BookID: bookID, GenreID: id})
	}
	if len(bookGenres) == 0 {
		return nil
	}
	_, err := tx.NewInsert().Model(&bookGenres).Exec(ctx)
	return errors.WithStack(err)
}
