package errcodes

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, CodeNotFound, KindOf(NotFound("Genre")))
	assert.Equal(t, CodeNotFound, KindOf(errors.WithStack(NotFound("Genre"))))
	assert.Equal(t, CodeAlreadyExists, KindOf(AlreadyExists("Genre")))
	assert.Equal(t, CodeValidationFailed, KindOf(ValidationFailed(nil)))
	assert.Equal(t, KindStorage, KindOf(errors.New("disk I/O error")))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFound(errors.WithStack(NotFound("Book copy"))))
	assert.False(t, IsNotFound(AlreadyExists("Genre")))
	assert.False(t, IsNotFound(errors.New("boom")))
	// Is compares the full error, so resources stay distinguishable.
	assert.True(t, errors.Is(NotFound("Genre"), NotFound("Genre")))
	assert.False(t, errors.Is(NotFound("Genre"), NotFound("Author")))
}

func TestAsValidationFailure(t *testing.T) {
	t.Parallel()

	fields := []FieldError{
		{Field: "book", Message: "Book must be specified"},
		{Field: "due_back", Message: "Invalid date"},
	}
	err := errors.WithStack(ValidationFailed(fields))

	got, ok := AsValidationFailure(err)
	assert.True(t, ok)
	assert.Equal(t, fields, got)
	assert.Equal(t, "Book must be specified", err.Error())

	_, ok = AsValidationFailure(ValidationError(`"name" is required`))
	assert.False(t, ok)
	_, ok = AsValidationFailure(errors.New("boom"))
	assert.False(t, ok)
}
