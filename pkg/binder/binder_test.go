package binder

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/locallibrary/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Hello string `json:"hello" mod:"trim" validate:"max=9"`
	Omit  string `json:"-"`
}

type copyForm struct {
	Book    string   `form:"book" mod:"trim,escape" validate:"required" msg:"Book must be specified"`
	Imprint string   `form:"imprint" mod:"trim,escape" validate:"required" msg:"Imprint must be specified"`
	Status  string   `form:"status" mod:"trim,escape" default:"Maintenance" validate:"oneof=Available Maintenance Loaned Reserved"`
	DueBack string   `form:"due_back" mod:"trim" validate:"omitempty,iso8601" msg:"Invalid date"`
	Name    string   `form:"name" mod:"trim" validate:"required,max=5,alphanumunicode" msg:"Name must be specified." msg_alphanumunicode:"Name has non-alphanumeric characters."`
	Tags    []string `form:"tag" mod:"dive,trim,escape"`
}

var (
	goodJSON             = `{"hello":" world "}`
	unknownFieldsErrJSON = `{"hello":"world","foo":"bar"}`
	typeErrJSON          = `{"hello":123}`
	validationErrJSON    = `{"hello":"0123456789"}`
)

func TestNew(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)
	assert.NotNil(t, b)

	t.Run("only allows forms and application/json", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationXML)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(tt *testing.T) {
		c := newContext(unknownFieldsErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		c := newContext(typeErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"hello" should be of type string`)
	})

	t.Run("use mod tag to modify params", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "world", p.Hello)
	})

	t.Run("use validate tag to validate params", func(tt *testing.T) {
		c := newContext(validationErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "length must be less than or equal to 9 characters")
	})
}

func TestBind_Form(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("sanitizes and applies defaults", func(tt *testing.T) {
		form := url.Values{
			"book":     {"  abc  "},
			"imprint":  {" Penguin <Classics> "},
			"due_back": {" 2026-10-14 "},
			"name":     {"Jane"},
			"tag":      {" a&b ", "c"},
			"submit":   {"Submit"},
		}
		p := copyForm{}
		err := b.Bind(&p, newFormContext(form))
		require.NoError(tt, err)

		assert.Equal(tt, "abc", p.Book)
		assert.Equal(tt, "Penguin &lt;Classics&gt;", p.Imprint)
		assert.Equal(tt, "Maintenance", p.Status)
		assert.Equal(tt, "2026-10-14", p.DueBack)
		assert.Equal(tt, []string{"a&amp;b", "c"}, p.Tags)
	})

	t.Run("returns every failed field in declaration order", func(tt *testing.T) {
		form := url.Values{
			"book":     {"   "},
			"imprint":  {""},
			"status":   {"Lost"},
			"due_back": {"next tuesday"},
			"name":     {"J@ne"},
		}
		p := copyForm{}
		err := b.Bind(&p, newFormContext(form))

		fields, ok := errcodes.AsValidationFailure(err)
		require.True(tt, ok)
		assert.Equal(tt, []errcodes.FieldError{
			{Field: "book", Message: "Book must be specified"},
			{Field: "imprint", Message: "Imprint must be specified"},
			{Field: "status", Message: `"status" must be one of the following: "Available", "Maintenance", "Loaned", "Reserved"`},
			{Field: "due_back", Message: "Invalid date"},
			{Field: "name", Message: "Name has non-alphanumeric characters."},
		}, fields)

		// sanitization still ran
		assert.Equal(tt, "", p.Book)
		assert.Equal(tt, "next tuesday", p.DueBack)
	})

	t.Run("skips optional dates that are blank", func(tt *testing.T) {
		form := url.Values{
			"book":     {"abc"},
			"imprint":  {"Penguin"},
			"due_back": {"   "},
			"name":     {"Jane"},
		}
		p := copyForm{}
		err := b.Bind(&p, newFormContext(form))
		require.NoError(tt, err)
		assert.Equal(tt, "", p.DueBack)
	})

	t.Run("uses the field message when the tag has none", func(tt *testing.T) {
		form := url.Values{
			"book":    {"abc"},
			"imprint": {"Penguin"},
			"name":    {"Janeway"},
		}
		p := copyForm{}
		err := b.Bind(&p, newFormContext(form))
		fields, ok := errcodes.AsValidationFailure(err)
		require.True(tt, ok)
		require.Len(tt, fields, 1)
		assert.Equal(tt, "name", fields[0].Field)
		assert.Equal(tt, "Name must be specified.", fields[0].Message)
	})
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDate("1817-07-18")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, time.Date(1817, time.July, 18, 0, 0, 0, 0, time.UTC), *d)

	d, err = ParseDate("2026-10-14T09:30:00Z")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 9, d.Hour())

	_, err = ParseDate("14/10/2026")
	assert.Error(t, err)
}

func newContext(payload, mime string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, mime)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}

func newFormContext(form url.Values) echo.Context {
	return newContext(form.Encode(), echo.MIMEApplicationForm)
}
