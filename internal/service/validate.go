package service

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/sakif/review-hub/internal/apperror"
)

// validationError turns an ozzo-validation result into the apperror the
// handlers understand. ozzo returns one error per field, keyed by the json
// tag; only the first field (alphabetically, so responses are stable) is
// reported.
func validationError(err error) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}

	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	first := fields[0]
	return apperror.ValidationFailed(first, errs[first].Error())
}
