package service

import (
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/sakif/review-hub/internal/apperror"
)

func TestValidationError(t *testing.T) {
	if validationError(nil) != nil {
		t.Fatal("nil in, nil out")
	}

	in := struct {
		Title string `json:"title"`
		Link  string `json:"storage_link"`
	}{}
	err := validationError(validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required.Error("title is required")),
		validation.Field(&in.Link, validation.Required.Error("link is required")),
	))

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("expected ErrValidation")
	}
	// "storage_link" sorts before "title".
	if appErr.Field != "storage_link" || appErr.Message != "link is required" {
		t.Errorf("got field=%q message=%q", appErr.Field, appErr.Message)
	}

	other := errors.New("boom")
	if validationError(other) != other {
		t.Error("non-validation errors must pass through")
	}
}
