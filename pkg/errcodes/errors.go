package errcodes

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Codes that handlers branch on. Code doubles as the kind of the error.
const (
	CodeAlreadyExists    = "already_exists"
	CodeNotFound         = "not_found"
	CodeValidationFailed = "validation_failed"

	// KindStorage is reported by KindOf for errors that aren't an *Error, which
	// in practice means they came out of the persistence layer.
	KindStorage = "storage_error"
)

// FieldError is a single failed rule on a submitted form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	HTTPCode int
	Message  string
	Code     string
	Fields   []FieldError
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	te.Fields = err.Fields
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// KindOf returns the code of err if it's an *Error and KindStorage otherwise.
func KindOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return KindStorage
}

// IsNotFound reports whether err is a not found error for any resource.
func IsNotFound(err error) bool {
	return KindOf(err) == CodeNotFound
}

// IsAlreadyExists reports whether err is a uniqueness conflict.
func IsAlreadyExists(err error) bool {
	return KindOf(err) == CodeAlreadyExists
}

// AsValidationFailure returns the field errors carried by err when it's a
// validation failure produced by the binder.
func AsValidationFailure(err error) ([]FieldError, bool) {
	var e *Error
	if !errors.As(err, &e) || e.Code != CodeValidationFailed {
		return nil, false
	}
	return e.Fields, true
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		HTTPCode: http.StatusNotFound,
		Message:  resource + " not found.",
		Code:     CodeNotFound,
	}
}

// AlreadyExists returns a 409 error for a write that hit a unique constraint.
func AlreadyExists(resource string) error {
	return &Error{
		HTTPCode: http.StatusConflict,
		Message:  resource + " already exists.",
		Code:     CodeAlreadyExists,
	}
}

// ValidationFailed returns a 422 error carrying every failed field, in the
// order the fields were declared.
func ValidationFailed(fields []FieldError) error {
	msg := "Validation failed."
	if len(fields) > 0 {
		msg = fields[0].Message
	}
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     CodeValidationFailed,
		Fields:   fields,
	}
}

func UnsupportedMediaType() error {
	return &Error{
		HTTPCode: http.StatusUnsupportedMediaType,
		Message:  "Unsupported Media Type",
		Code:     "unsupported_media_type",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  fmt.Sprintf("Unknown Parameter %q", param),
		Code:     "unknown_parameter",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "validation_type_error",
	}
}

func ValidationError(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "validation_error",
	}
}

func MalformedPayload() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Malformed Payload",
		Code:     "malformed_payload",
	}
}
