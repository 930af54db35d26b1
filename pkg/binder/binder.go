package binder

import (
	"encoding/json"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/shishobooks/locallibrary/pkg/errcodes"
)

var unknownFieldsRE = regexp.MustCompile(`^json: unknown field "(.*)"$`)

// Binder is a custom struct that implements the Echo Binder interface. It binds
// to a struct, uses mold to clean up the params, and validator to validate
// them.
//
// Sanitization runs before validation and regardless of its outcome, so when
// Bind returns a validation failure the struct still holds the cleaned values
// and can be handed back to the form as-is.
type Binder struct {
	queryDecoder *schema.Decoder
	formDecoder  *schema.Decoder
	conform      *mold.Transformer
	validate     *validator.Validate
}

// New initializes a new Binder instance with the appropriate validation
// functions registered.
func New() (*Binder, error) {
	queryDecoder := schema.NewDecoder()
	queryDecoder.SetAliasTag("query")
	formDecoder := schema.NewDecoder()
	formDecoder.SetAliasTag("form")
	// Browsers post the submit button and any extra inputs along with the
	// fields we care about.
	formDecoder.IgnoreUnknownKeys(true)

	conform := modifiers.New()
	conform.Register("escape", escapeModifier)

	validate := validator.New()
	validate.RegisterTagNameFunc(fieldName)
	if err := validate.RegisterValidation("date", dateValidator); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := validate.RegisterValidation("iso8601", iso8601Validator); err != nil {
		return nil, errors.WithStack(err)
	}

	return &Binder{queryDecoder, formDecoder, conform, validate}, nil
}

// Bind binds, modifies, and validates payloads against the given struct.
func (b *Binder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()
	log := logger.FromEchoContext(c)

	if req.ContentLength > 0 {
		// request has a body
		ctype := req.Header.Get(echo.HeaderContentType)
		switch {
		case strings.HasPrefix(ctype, echo.MIMEApplicationForm), strings.HasPrefix(ctype, echo.MIMEMultipartForm):
			params, err := c.FormParams()
			if err != nil {
				return errcodes.MalformedPayload()
			}
			if err := b.decodeValues(i, params, b.formDecoder); err != nil {
				return err
			}
		case strings.HasPrefix(ctype, echo.MIMEApplicationJSON):
			dec := json.NewDecoder(req.Body)
			disallowUnknownFields := true
			if disallow, ok := c.Get("disallow_unknown_fields").(bool); ok {
				disallowUnknownFields = disallow
			}
			if disallowUnknownFields {
				dec.DisallowUnknownFields()
			}
			defer req.Body.Close()
			if err := dec.Decode(i); err != nil {
				// return better error message when there are unknown fields
				if matches := unknownFieldsRE.FindAllStringSubmatch(err.Error(), -1); len(matches) > 0 && len(matches[0]) > 1 {
					return errcodes.UnknownParameter(matches[0][1])
				}

				// return better error message on type errors
				var typeErr *json.UnmarshalTypeError
				if errors.As(err, &typeErr) {
					return errcodes.ValidationTypeError(formatUnmarshalTypeError(typeErr))
				}

				log.Err(err).Error("unknown json decode error")

				return errcodes.MalformedPayload()
			}
		default:
			return errcodes.UnsupportedMediaType()
		}
	} else if req.Method == http.MethodGet || req.Method == http.MethodDelete {
		if err := b.decodeValues(i, c.QueryParams(), b.queryDecoder); err != nil {
			return err
		}
	}

	if err := b.conform.Struct(req.Context(), i); err != nil {
		return errors.WithStack(err)
	}

	if err := defaults.Set(i); err != nil {
		return errors.WithStack(err)
	}

	if err := b.validate.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return errors.WithStack(err)
		}
		return errcodes.ValidationFailed(fieldErrors(i, errs))
	}
	return nil
}

func (b *Binder) decodeValues(i interface{}, params url.Values, decoder *schema.Decoder) error {
	if err := decoder.Decode(i, params); err != nil {
		var errs schema.MultiError
		if errors.As(err, &errs) {
			for _, err := range errs {
				var convErr schema.ConversionError
				if errors.As(err, &convErr) {
					return errcodes.ValidationTypeError(formatSchemaConversionError(convErr))
				}
				var keyErr schema.UnknownKeyError
				if errors.As(err, &keyErr) {
					return errcodes.UnknownParameter(keyErr.Key)
				}
				return errors.WithStack(err)
			}
		}
		return errors.WithStack(err)
	}
	return nil
}

// fieldName names fields after their form key, falling back to the JSON key.
func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"form", "json", "query"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return ""
}

// fieldErrors turns validator errors into the ordered field/message list. The
// message comes from a `msg_<tag>` struct tag, then a `msg` struct tag, and
// finally the generic formatted message.
func fieldErrors(i interface{}, errs validator.ValidationErrors) []errcodes.FieldError {
	t := reflect.TypeOf(i)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	fields := make([]errcodes.FieldError, 0, len(errs))
	for _, fe := range errs {
		msg := ""
		if sf, ok := lookupField(t, fe.StructNamespace()); ok {
			msg = sf.Tag.Get("msg_" + fe.Tag())
			if msg == "" {
				msg = sf.Tag.Get("msg")
			}
		}
		if msg == "" {
			msg = formatValidationError(fe)
		}
		fields = append(fields, errcodes.FieldError{Field: fe.Field(), Message: msg})
	}
	return fields
}

// lookupField walks a validator struct namespace (e.g. "BookPayload.Genre[0]")
// down to the struct field it names.
func lookupField(t reflect.Type, namespace string) (reflect.StructField, bool) {
	parts := strings.Split(namespace, ".")
	if len(parts) < 2 {
		return reflect.StructField{}, false
	}

	var sf reflect.StructField
	for _, part := range parts[1:] {
		if idx := strings.IndexByte(part, '['); idx >= 0 {
			part = part[:idx]
		}
		for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Array || t.Kind() == reflect.Map {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return reflect.StructField{}, false
		}
		var ok bool
		sf, ok = t.FieldByName(part)
		if !ok {
			return reflect.StructField{}, false
		}
		t = sf.Type
	}
	return sf, true
}
