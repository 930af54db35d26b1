package authors

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/locallibrary/pkg/errcodes"
	"github.com/shishobooks/locallibrary/pkg/join"
	"github.com/shishobooks/locallibrary/pkg/models"
	"github.com/shishobooks/locallibrary/pkg/views"
)

const listURL = "/catalog/authors"

type handler struct {
	authorService *Service
}

func (h *handler) list(c echo.Context) error {
	authors, err := h.authorService.ListAuthors(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "author_list", views.Data{
		"title":       "Author List",
		"author_list": authors,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	author, books, err := h.authorWithBooks(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "author_detail", views.Data{
		"title":        "Author Detail",
		"author":       author,
		"author_books": books,
	}))
}

func (h *handler) createForm(c echo.Context) error {
	return renderForm(c, "Create Author", nil, nil)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := AuthorPayload{}
	author := &models.Author{}
	if err := c.Bind(&params); err != nil {
		fields, ok := errcodes.AsValidationFailure(err)
		if !ok {
			return errors.WithStack(err)
		}
		params.apply(author)
		return renderForm(c, "Create Author", author, fields)
	}

	params.apply(author)
	if err := h.authorService.CreateAuthor(ctx, author); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusFound, author.URL()))
}

func (h *handler) deleteForm(c echo.Context) error {
	author, books, err := h.authorWithBooks(c.Request().Context(), c.Param("id"))
	if errcodes.IsNotFound(err) {
		return errors.WithStack(c.Redirect(http.StatusFound, listURL))
	}
	if err != nil {
		return errors.WithStack(err)
	}

	return renderDelete(c, author, books)
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	params := DeleteAuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	author, books, err := h.authorWithBooks(ctx, params.AuthorID)
	if errcodes.IsNotFound(err) {
		return errors.WithStack(c.Redirect(http.StatusFound, listURL))
	}
	if err != nil {
		return errors.WithStack(err)
	}

	if len(books) > 0 {
		logger.FromContext(ctx).Info("author still has books", logger.Data{"author_id": author.ID, "book_count": len(books)})
		return renderDelete(c, author, books)
	}

	if err := h.authorService.DeleteAuthor(ctx, author.ID); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusFound, listURL))
}

func (h *handler) updateForm(c echo.Context) error {
	id := c.Param("id")

	author, err := h.authorService.RetrieveAuthor(c.Request().Context(), RetrieveAuthorOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return renderForm(c, "Update Author", author, nil)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	params := AuthorPayload{}
	author := &models.Author{ID: id}
	if err := c.Bind(&params); err != nil {
		fields, ok := errcodes.AsValidationFailure(err)
		if !ok {
			return errors.WithStack(err)
		}
		params.apply(author)
		return renderForm(c, "Update Author", author, fields)
	}

	params.apply(author)
	err := h.authorService.UpdateAuthor(ctx, author, UpdateAuthorOptions{
		Columns: []string{"first_name", "family_name", "date_of_birth", "date_of_death"},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusFound, author.URL()))
}

func (h *handler) authorWithBooks(ctx context.Context, id string) (*models.Author, []*models.Book, error) {
	return join.Pair(ctx,
		func(ctx context.Context) (*models.Author, error) {
			return h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &id})
		},
		func(ctx context.Context) ([]*models.Book, error) {
			return h.authorService.ListBooks(ctx, id)
		},
	)
}

func renderForm(c echo.Context, title string, author *models.Author, fields []errcodes.FieldError) error {
	return errors.WithStack(c.Render(http.StatusOK, "author_form", views.Data{
		"title":  title,
		"author": author,
		"errors": fields,
	}))
}

func renderDelete(c echo.Context, author *models.Author, books []*models.Book) error {
	return errors.WithStack(c.Render(http.StatusOK, "author_delete", views.Data{
		"title":        "Delete Author",
		"author":       author,
		"author_books": books,
	}))
}
