package books

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/locallibrary/pkg/authors"
	"github.com/shishobooks/locallibrary/pkg/errcodes"
	"github.com/shishobooks/locallibrary/pkg/genres"
	"github.com/shishobooks/locallibrary/pkg/join"
	"github.com/shishobooks/locallibrary/pkg/models"
	"github.com/shishobooks/locallibrary/pkg/views"
)

const listURL = "/catalog/books"

type handler struct {
	bookService   *Service
	authorService *authors.Service
	genreService  *genres.Service
}

func (h *handler) list(c echo.Context) error {
	books, err := h.bookService.ListBooks(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "book_list", views.Data{
		"title":     "Book List",
		"book_list": books,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	book, instances, err := h.bookWithInstances(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "book_detail", views.Data{
		"title":          book.Title,
		"book":           book,
		"book_instances": instances,
	}))
}

func (h *handler) createForm(c echo.Context) error {
	return h.renderForm(c, "Create Book", &models.Book{}, "", []string{}, nil)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := BookPayload{}
	book := &models.Book{}
	if err := c.Bind(&params); err != nil {
		fields, ok := errcodes.AsValidationFailure(err)
		if !ok {
			return errors.WithStack(err)
		}
		params.apply(book)
		return h.renderForm(c, "Create Book", book, params.Author, params.Genre, fields)
	}

	params.apply(book)
	if err := h.bookService.CreateBook(ctx, book, params.Genre); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusFound, book.URL()))
}

func (h *handler) deleteForm(c echo.Context) error {
	book, instances, err := h.bookWithInstances(c.Request().Context(), c.Param("id"))
	if errcodes.IsNotFound(err) {
		return errors.WithStack(c.Redirect(http.StatusFound, listURL))
	}
	if err != nil {
		return errors.WithStack(err)
	}

	return renderDelete(c, book, instances)
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	params := DeleteBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, instances, err := h.bookWithInstances(ctx, params.BookID)
	if errcodes.IsNotFound(err) {
		return errors.WithStack(c.Redirect(http.StatusFound, listURL))
	}
	if err != nil {
		return errors.WithStack(err)
	}

	if len(instances) > 0 {
		logger.FromContext(ctx).Info("book still has copies", logger.Data{"book_id": book.ID, "copy_count": len(instances)})
		return renderDelete(c, book, instances)
	}

	if err := h.bookService.DeleteBook(ctx, book.ID); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusFound, listURL))
}

func (h *handler) updateForm(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var (
		book       *models.Book
		authorList []*models.Author
		genreList  []*models.Genre
	)
	err := join.All(ctx,
		func(ctx context.Context) (err error) {
			book, err = h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
			return err
		},
		func(ctx context.Context) (err error) {
			authorList, err = h.authorService.ListAuthors(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			genreList, err = h.genreService.ListGenres(ctx)
			return err
		},
	)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "book_form", views.Data{
		"title":           "Update Book",
		"book":            book,
		"authors":         authorList,
		"genres":          genreList,
		"selected_author": book.AuthorID,
		"selected_genres": book.GenreIDs(),
	}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	params := BookPayload{}
	book := &models.Book{ID: id}
	if err := c.Bind(&params); err != nil {
		fields, ok := errcodes.AsValidationFailure(err)
		if !ok {
			return errors.WithStack(err)
		}
		params.apply(book)
		return h.renderForm(c, "Update Book", book, params.Author, params.Genre, fields)
	}

	params.apply(book)
	genreIDs := params.Genre
	if genreIDs == nil {
		genreIDs = []string{}
	}
	err := h.bookService.UpdateBook(ctx, book, UpdateBookOptions{
		Columns:  []string{"title", "author_id", "summary", "isbn"},
		GenreIDs: &genreIDs,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusFound, book.URL()))
}

func (h *handler) bookWithInstances(ctx context.Context, id string) (*models.Book, []*models.BookInstance, error) {
	return join.Pair(ctx,
		func(ctx context.Context) (*models.Book, error) {
			return h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
		},
		func(ctx context.Context) ([]*models.BookInstance, error) {
			return h.bookService.ListBookInstances(ctx, id)
		},
	)
}

// renderForm renders the book form with the authors and genres to pick from.
func (h *handler) renderForm(c echo.Context, title string, book *models.Book, authorID string, genreIDs []string, fields []errcodes.FieldError) error {
	authorList, genreList, err := join.Pair(c.Request().Context(), h.authorService.ListAuthors, h.genreService.ListGenres)
	if err != nil {
		return errors.WithStack(err)
	}
	if genreIDs == nil {
		genreIDs = []string{}
	}

	return errors.WithStack(c.Render(http.StatusOK, "book_form", views.Data{
		"title":           title,
		"book":            book,
		"authors":         authorList,
		"genres":          genreList,
		"selected_author": authorID,
		"selected_genres": genreIDs,
		"errors":          fields,
	}))
}

func renderDelete(c echo.Context, book *models.Book, instances []*models.BookInstance) error {
	return errors.WithStack(c.Render(http.StatusOK, "book_delete", views.Data{
		"title":          "Delete Book",
		"book":           book,
		"book_instances": instances,
	}))
}
