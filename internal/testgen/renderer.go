package testgen

import (
	"io"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/locallibrary/pkg/views"
)

// Renderer is an echo.Renderer that remembers the last view it was asked to
// render instead of producing HTML.
type Renderer struct {
	View  string
	Data  views.Data
	Calls int
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	r.View = name
	r.Data, _ = data.(views.Data)
	if r.Data == nil {
		if m, ok := data.(map[string]any); ok {
			r.Data = m
		}
	}
	r.Calls++
	_, err := io.WriteString(w, name)
	return err
}
