// Package testgen provides the scaffolding the handler and service tests share:
// a migrated in-memory database, an echo instance that records what it renders,
// and fixtures for each catalog entity.
package testgen

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/locallibrary/pkg/binder"
	"github.com/shishobooks/locallibrary/pkg/migrations"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// NewDB returns a migrated in-memory database that's closed when the test ends.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// Every connection to ":memory:" is its own database, so concurrent
	// lookups have to share one.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// NewEcho returns an echo instance wired with the real binder and a recording
// renderer.
func NewEcho(t *testing.T) (*echo.Echo, *Renderer) {
	t.Helper()

	b, err := binder.New()
	require.NoError(t, err)

	r := &Renderer{}
	e := echo.New()
	e.Binder = b
	e.Renderer = r
	return e, r
}

// Get builds a GET context. params are route param name/value pairs.
func Get(e *echo.Echo, target string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return newContext(e, req, params)
}

// PostForm builds a urlencoded POST context. params are route param
// name/value pairs.
func PostForm(e *echo.Echo, target string, form url.Values, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return newContext(e, req, params)
}

func newContext(e *echo.Echo, req *http.Request, params []string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}
