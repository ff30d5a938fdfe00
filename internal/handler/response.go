package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// Without helpers, every handler repeats the same boilerplate:
//   w.Header().Set("Content-Type", "application/json")
//   w.WriteHeader(statusCode)
//   json.NewEncoder(w).Encode(data)
//
// With helpers:
//   writeJSON(w, http.StatusOK, data)
//   writeError(w, r, err)
//
// CONSISTENT ERROR FORMAT:
// Every error response has the same shape:
//   {"error": "not_found", "message": "submission not found"}
//   {"error": "validation_error", "message": "name is required", "field": "name"}

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/review-hub/internal/apperror"
	"github.com/sakif/review-hub/internal/auth"
)

// maxJSONBody caps request bodies that are decoded as JSON.
const maxJSONBody = 1 << 20

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`           // machine-readable kind, e.g. "not_found"
	Message string `json:"message"`         // human-readable description
	Field   string `json:"field,omitempty"` // offending input field, validation only
}

// MessageResponse answers operations that have nothing else to return.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// TokenResponse answers register, login and the GitHub callback.
type TokenResponse struct {
	Token string `json:"token"`
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status go out on the first Write. Set them before encoding.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// statusFor maps an error kind to its HTTP status and kind string.
//
// Both "not authenticated" and "not allowed" answer 401, and duplicates
// (liking twice, reviewing twice) answer 400, which is what the web client
// already expects.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusBadRequest, "conflict"
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeError maps a domain error to the matching HTTP response.
//
// WHY HERE AND NOT IN THE SERVICE?
// The service layer should not know about HTTP status codes. It returns
// apperror values; this is the one place they become 400/401/404/500.
//
// errors.As walks the wrap chain, so
//
//	fmt.Errorf("loading user: %w", apperror.NotFound(...))
//
// still yields the AppError and its message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFor(err)

	var appErr *apperror.AppError
	if status != http.StatusInternalServerError && errors.As(err, &appErr) {
		writeJSON(w, status, ErrorResponse{
			Error:   kind,
			Message: appErr.Message,
			Field:   appErr.Field,
		})
		return
	}

	// NEVER expose internal error details to the client: the raw message
	// may contain SQL, file paths or bucket names.
	slog.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("requestID", chimiddleware.GetReqID(r.Context())),
		slog.String("error", err.Error()),
	)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "server error",
	})
}

// decodeJSON reads a JSON body into dst. Unknown fields are ignored so older
// and newer clients keep working.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperror.ValidationFailed("", "request body too large")
		case errors.Is(err, io.EOF):
			return apperror.ValidationFailed("", "request body is empty")
		default:
			return apperror.ValidationFailed("", "request body is not valid JSON")
		}
	}
	return nil
}

// callerID returns the user id RequireAuth stored in the context.
func callerID(r *http.Request) (string, error) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return "", apperror.Unauthenticated("token is not valid")
	}
	return id, nil
}
