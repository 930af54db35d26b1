package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the catalog home page on the catalog group and
// sends the site root to it.
func RegisterRoutes(e *echo.Echo, g *echo.Group, db *bun.DB) {
	h := &handler{
		catalogService: NewService(db),
	}

	g.GET("", h.index)
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/catalog")
	})
}
