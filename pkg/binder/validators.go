package binder

import (
	"context"
	"reflect"
	"regexp"
	"time"

	"github.com/go-playground/mold/v4"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

var (
	dateRE = regexp.MustCompile(`^\d{4}-(0[0-9]|1[0-2])-(0[0-9]|1[0-9]|2[0-9]|3[0-1])$`)

	// isoLayouts are the ISO 8601 shapes a date input can arrive in, from a
	// bare calendar date to a full timestamp with an offset.
	isoLayouts = []string{
		"2006-01-02",
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
	}
)

// dateValidator ensures the value matches the format YYYY-MM-DD or the empty
// string. The reason the empty string is allowed is that this validator can be
// used to clear out values. If you want the value to be required, add a `ne=`
// to the validate tag so that the empty string is disallowed.
func dateValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return dateRE.MatchString(value)
}

// iso8601Validator ensures the value is a non-empty ISO 8601 date or
// timestamp. Pair it with omitempty for optional dates.
func iso8601Validator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return false
	}
	_, err := ParseDate(value)
	return err == nil
}

// escapeModifier HTML-escapes string fields in place.
func escapeModifier(_ context.Context, fl mold.FieldLevel) error {
	field := fl.Field()
	if field.Kind() == reflect.String && field.CanSet() {
		field.SetString(html.EscapeString(field.String()))
	}
	return nil
}

// ParseDate converts a sanitized date input to a time. The empty string means
// the date was left blank and yields nil.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, errors.Errorf("%q is not an ISO 8601 date", value)
}
