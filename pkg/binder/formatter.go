package binder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/segmentio/encoding/json"
)

// messages formats the generic text for a failed validator tag. Payloads with a
// `msg` tag never get here.
var messages = map[string]func(validator.FieldError) string{
	"alphanumunicode": func(fe validator.FieldError) string {
		return fmt.Sprintf("%q has non-alphanumeric characters", fe.Field())
	},
	"date": func(fe validator.FieldError) string {
		return fmt.Sprintf("%q should be in the format of YYYY-MM-DD", fe.Field())
	},
	"iso8601": func(fe validator.FieldError) string {
		return fmt.Sprintf("%q should be an ISO 8601 date", fe.Field())
	},
	"max": func(fe validator.FieldError) string {
		return bound(fe, "less than or equal to")
	},
	"min": func(fe validator.FieldError) string {
		return bound(fe, "greater than or equal to")
	},
	"ne": func(fe validator.FieldError) string {
		return fmt.Sprintf("%q can't be %q", fe.Field(), fe.Param())
	},
	"oneof": func(fe validator.FieldError) string {
		options := strings.Fields(fe.Param())
		for i, o := range options {
			options[i] = fmt.Sprintf("%q", o)
		}
		return fmt.Sprintf("%q must be one of the following: %s", fe.Field(), strings.Join(options, ", "))
	},
	"required": func(fe validator.FieldError) string {
		return fmt.Sprintf("%q is required", fe.Field())
	},
}

func formatValidationError(fe validator.FieldError) string {
	if format, ok := messages[fe.Tag()]; ok {
		return format(fe)
	}
	return fmt.Sprintf("%q is invalid", fe.Field())
}

// bound phrases min/max failures: numbers compare by value, strings by
// characters, and slices by elements.
func bound(fe validator.FieldError, cmp string) string {
	var unit string
	switch fe.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%q must be %s %s", fe.Field(), cmp, fe.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		unit = "element"
	default:
		unit = "character"
	}
	if fe.Param() != "1" {
		unit += "s"
	}
	return fmt.Sprintf("%q length must be %s %s %s", fe.Field(), cmp, fe.Param(), unit)
}

func formatUnmarshalTypeError(err *json.UnmarshalTypeError) string {
	return fmt.Sprintf("%q should be of type %s", strings.Trim(err.Field, "."), err.Type)
}

func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("%q should be of type %s", err.Key, err.Type)
}
