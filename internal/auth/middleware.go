package auth

import (
	"context"
	"net/http"
	"strings"
)

// TokenHeader is the legacy header some clients still use instead of
// "Authorization: Bearer".
const TokenHeader = "x-auth-token"

// contextKey is unexported so no other package can read or overwrite the
// user id stored by RequireAuth.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth rejects requests without a valid token with 401 and stores the
// caller's user id in the request context otherwise.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware takes an http.Handler and returns one that wraps it:
//
//	req → RequireAuth → handler → RequireAuth → resp
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := tokens.Validate(TokenFromRequest(r))
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthenticated","message":"token is not valid"}`))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// TokenFromRequest returns the bearer token, falling back to x-auth-token.
// It returns "" when neither header is present.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get(TokenHeader))
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated caller, or ("", false) when
// the request did not pass through RequireAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
