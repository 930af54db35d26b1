package genres

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

const listURL = "/catalog/genres"

type handler struct {
	genreService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	genres, err := h.genreService.ListGenres(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "genre_list", views.Data{
		"title":      "Genre List",
		"genre_list": genres,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	genre, books, err := h.genreWithBooks(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "genre_detail", views.Data{
		"title":       "Genre Detail",
		"genre":       genre,
		"genre_books": books,
	}))
}

func (h *handler) createForm(c echo.Context) error {
	return errors.WithStack(c.Render(http.StatusOK, "genre_form", views.Data{
		"title": "Create Genre",
	}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := GenrePayload{}
	if err := c.Bind(&params); err != nil {
		fields, ok := errcodes.AsValidationFailure(err)
		if !ok {
			return errors.WithStack(err)
		}
		return renderForm(c, "Create Genre", &models.Genre{Name: params.Name}, fields)
	}

	existing, err := h.genreService.RetrieveGenre(ctx, RetrieveGenreOptions{Name: &params.Name})
	if err == nil {
		return errors.WithStack(c.Redirect(http.StatusFound, existing.URL()))
	}
	if !errcodes.IsNotFound(err) {
		return errors.WithStack(err)
	}

	genre := &models.Genre{Name: params.Name}
	err = h.genreService.CreateGenre(ctx, genre)
	if errcodes.IsAlreadyExists(err) {
		// Someone else created it between the lookup and the insert.
		existing, err := h.genreService.RetrieveGenre(ctx, RetrieveGenreOptions{Name: &params.Name})
		if err != nil {
			return errors.WithStack(err)
		}
		return errors.WithStack(c.Redirect(http.StatusFound, existing.URL()))
	}
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusFound, genre.URL()))
}

func (h *handler) deleteForm(c echo.Context) error {
	genre, books, err := h.genreWithBooks(c.Request().Context(), c.Param("id"))
	if errcodes.IsNotFound(err) {
		return errors.WithStack(c.Redirect(http.StatusFound, listURL))
	}
	if err != nil {
		return errors.WithStack(err)
	}

	return renderDelete(c, genre, books)
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := DeleteGenrePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	genre, books, err := h.genreWithBooks(ctx, params.GenreID)
	if errcodes.IsNotFound(err) {
		return errors.WithStack(c.Redirect(http.StatusFound, listURL))
	}
	if err != nil {
		return errors.WithStack(err)
	}

	if len(books) > 0 {
		log.Info("genre still has books", logger.Data{"genre_id": genre.ID, "book_count": len(books)})
		return renderDelete(c, genre, books)
	}

	if err := h.genreService.DeleteGenre(ctx, genre.ID); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusFound, listURL))
}

func (h *handler) updateForm(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	genre, err := h.genreService.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return renderForm(c, "Update Genre", genre, nil)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	params := GenrePayload{}
	if err := c.Bind(&params); err != nil {
		fields, ok := errcodes.AsValidationFailure(err)
		if !ok {
			return errors.WithStack(err)
		}
		return renderForm(c, "Update Genre", &models.Genre{ID: id, Name: params.Name}, fields)
	}

	genre, err := h.genreService.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	taken := []errcodes.FieldError{{Field: "name", Message: "Genre name already in use"}}
	if params.Name != genre.Name {
		other, err := h.genreService.RetrieveGenre(ctx, RetrieveGenreOptions{Name: &params.Name})
		if err != nil && !errcodes.IsNotFound(err) {
			return errors.WithStack(err)
		}
		if other != nil && other.ID != genre.ID {
			return renderForm(c, "Update Genre", &models.Genre{ID: id, Name: params.Name}, taken)
		}
	}

	genre.Name = params.Name
	err = h.genreService.UpdateGenre(ctx, genre, UpdateGenreOptions{Columns: []string{"name"}})
	if errcodes.IsAlreadyExists(err) {
		return renderForm(c, "Update Genre", genre, taken)
	}
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusFound, genre.URL()))
}

// genreWithBooks looks up a genre and its books at the same time.
func (h *handler) genreWithBooks(ctx context.Context, id string) (*models.Genre, []*models.Book, error) {
	return join.Pair(ctx,
		func(ctx context.Context) (*models.Genre, error) {
			return h.genreService.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &id})
		},
		func(ctx context.Context) ([]*models.Book, error) {
			return h.genreService.ListBooks(ctx, id)
		},
	)
}

func renderForm(c echo.Context, title string, genre *models.Genre, fields []errcodes.FieldError) error {
	return errors.WithStack(c.Render(http.StatusOK, "genre_form", views.Data{
		"title":  title,
		"genre":  genre,
		"errors": fields,
	}))
}

func renderDelete(c echo.Context, genre *models.Genre, books []*models.Book) error {
	return errors.WithStack(c.Render(http.StatusOK, "genre_delete", views.Data{
		"title":       "Delete Genre",
		"genre":       genre,
		"genre_books": books,
	}))
}
