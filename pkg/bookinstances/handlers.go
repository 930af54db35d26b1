package bookinstances

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/locallibrary/pkg/books"
	"github.com/shishobooks/locallibrary/pkg/errcodes"
	"github.com/shishobooks/locallibrary/pkg/join"
	"github.com/shishobooks/locallibrary/pkg/models"
	"github.com/shishobooks/locallibrary/pkg/views"
)

const listURL = "/catalog/bookinstances"

type handler struct {
	bookInstanceService *Service
	bookService         *books.Service
}

func (h *handler) list(c echo.Context) error {
	instances, err := h.bookInstanceService.ListBookInstances(c.Request().Context(), ListBookInstancesOptions{})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "bookinstance_list", views.Data{
		"title":             "Book Instance List",
		"bookinstance_list": instances,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	id := c.Param("id")

	instance, err := h.bookInstanceService.RetrieveBookInstance(c.Request().Context(), RetrieveBookInstanceOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	title := "Copy: "
	if instance.Book != nil {
		title += instance.Book.Title
	}
	return errors.WithStack(c.Render(http.StatusOK, "bookinstance_detail", views.Data{
		"title":        title,
		"bookinstance": instance,
	}))
}

func (h *handler) createForm(c echo.Context) error {
	return h.renderForm(c, "Create BookInstance", nil, nil)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := BookInstancePayload{}
	instance := &models.BookInstance{}
	if err := c.Bind(&params); err != nil {
		fields, ok := errcodes.AsValidationFailure(err)
		if !ok {
			return errors.WithStack(err)
		}
		params.apply(instance, time.Now())
		return h.renderForm(c, "Create BookInstance", instance, fields)
	}

	params.apply(instance, time.Now())
	if err := h.bookInstanceService.CreateBookInstance(ctx, instance); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusFound, instance.URL()))
}

func (h *handler) deleteForm(c echo.Context) error {
	id := c.Param("id")

	instance, err := h.bookInstanceService.RetrieveBookInstance(c.Request().Context(), RetrieveBookInstanceOptions{ID: &id})
	if errcodes.IsNotFound(err) {
		return errors.WithStack(c.Redirect(http.StatusFound, listURL))
	}
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "bookinstance_delete", views.Data{
		"title":        "Delete BookInstance",
		"bookinstance": instance,
	}))
}

// delete removes the copy named in the body. Nothing depends on a copy, so
// there's no guard.
func (h *handler) delete(c echo.Context) error {
	params := DeleteBookInstancePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := h.bookInstanceService.DeleteBookInstance(c.Request().Context(), params.BookInstanceID); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusFound, listURL))
}

func (h *handler) updateForm(c echo.Context) error {
	id := c.Param("id")

	instance, bookList, err := join.Pair(c.Request().Context(),
		func(ctx context.Context) (*models.BookInstance, error) {
			return h.bookInstanceService.RetrieveBookInstance(ctx, RetrieveBookInstanceOptions{ID: &id})
		},
		h.bookService.ListBookTitles,
	)
	if err != nil {
		return errors.WithStack(err)
	}

	return render(c, "Update BookInstance", instance, bookList, nil)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	params := BookInstancePayload{}
	instance := &models.BookInstance{ID: id}
	if err := c.Bind(&params); err != nil {
		fields, ok := errcodes.AsValidationFailure(err)
		if !ok {
			return errors.WithStack(err)
		}
		params.apply(instance, time.Now())
		return h.renderForm(c, "Update BookInstance", instance, fields)
	}

	params.apply(instance, time.Now())
	err := h.bookInstanceService.UpdateBookInstance(ctx, instance, UpdateBookInstanceOptions{
		Columns: []string{"book_id", "imprint", "status", "due_back"},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusFound, instance.URL()))
}

// renderForm renders the copy form with the books to pick from.
func (h *handler) renderForm(c echo.Context, title string, instance *models.BookInstance, fields []errcodes.FieldError) error {
	bookList, err := h.bookService.ListBookTitles(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}
	return render(c, title, instance, bookList, fields)
}

func render(c echo.Context, title string, instance *models.BookInstance, bookList []*models.Book, fields []errcodes.FieldError) error {
	selected := ""
	if instance != nil {
		selected = instance.BookID
	}
	return errors.WithStack(c.Render(http.StatusOK, "bookinstance_form", views.Data{
		"title":         title,
		"book_list":     bookList,
		"selected_book": selected,
		"bookinstance":  instance,
		"statuses":      models.BookInstanceStatuses,
		"errors":        fields,
	}))
}
