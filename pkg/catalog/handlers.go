package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/locallibrary/pkg/views"
)

type handler struct {
	catalogService *Service
}

func (h *handler) index(c echo.Context) error {
	counts, err := h.catalogService.Counts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "index", views.Data{
		"title":                         "Local Library Home",
		"book_count":                    counts.Books,
		"book_instance_count":           counts.BookInstances,
		"book_instance_available_count": counts.AvailableBookInstances,
		"author_count":                  counts.Authors,
		"genre_count":                   counts.Genres,
	}))
}
