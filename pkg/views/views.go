// Package views renders the catalog's HTML pages. Each page is a template in
// templates/ that defines a "content" block, rendered inside the shared
// layout.
package views

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Data is what a handler hands to a view, keyed by the names the templates
// use (e.g. "title", "genre_list", "errors").
type Data map[string]any

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	templates map[string]*template.Template
}

var funcs = template.FuncMap{
	"display": display,
	"has":     has,
}

// New parses every view once, each on top of its own copy of the layout.
func New() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	r := &Renderer{templates: map[string]*template.Template{}}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse view %s", name)
		}
		r.templates[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return errors.Errorf("unknown view %q", name)
	}
	return errors.WithStack(t.ExecuteTemplate(w, "layout", data))
}

// Has reports whether a view with the given name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// display undoes the escaping applied when a value was sanitized, since the
// template escapes it again on output.
func display(s string) string {
	return html.UnescapeString(s)
}

func has(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
