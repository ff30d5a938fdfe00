package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Each constructor carries one sentinel, its message verbatim, and a field
// only when the caller named one.
func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		sentinel error
		message  string
		field    string
	}{
		{"not found", NotFound("comment", "c1"), ErrNotFound, "comment not found with id c1", ""},
		{"not found message", NotFoundMessage("submission not found"), ErrNotFound, "submission not found", ""},
		{"validation", ValidationFailed("storage_link", "you must provide a link to the uploaded file"), ErrValidation, "you must provide a link to the uploaded file", "storage_link"},
		{"conflict", Conflict("submission already liked"), ErrConflict, "submission already liked", ""},
		{"unauthorized", Unauthorized("user not authorized"), ErrUnauthorized, "user not authorized", ""},
		{"unauthenticated", Unauthenticated("no token, authorization denied"), ErrUnauthenticated, "no token, authorization denied", ""},
	}

	all := []error{ErrNotFound, ErrValidation, ErrConflict, ErrUnauthorized, ErrUnauthenticated}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			assert.Equal(t, tt.field, tt.err.Field)
			assert.Same(t, tt.sentinel, tt.err.Unwrap())

			// Exactly one sentinel matches.
			for _, s := range all {
				assert.Equal(t, s == tt.sentinel, errors.Is(tt.err, s), "errors.Is(%q, %v)", tt.err, s)
			}
		})
	}
}

func TestWrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("loading submission: %w", NotFound("submission", "s1"))

	assert.ErrorIs(t, err, ErrNotFound)

	var appErr *AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, "submission not found with id s1", appErr.Message)
	}
}
