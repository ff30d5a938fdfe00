package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// echoUser writes the user id RequireAuth put in the context.
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, _ := UserIDFromContext(r.Context())
	_, _ = w.Write([]byte(id))
})

func TestRequireAuth(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.Generate("user-42")
	h := RequireAuth(ts)(echoUser)

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
		wantBody   string
	}{
		{"bearer header", "Authorization", "Bearer " + token, http.StatusOK, "user-42"},
		{"lower-case scheme", "Authorization", "bearer " + token, http.StatusOK, "user-42"},
		{"x-auth-token header", TokenHeader, token, http.StatusOK, "user-42"},
		{"no token", "", "", http.StatusUnauthorized, ""},
		{"bad token", TokenHeader, "garbage", http.StatusUnauthorized, ""},
		{"basic scheme", "Authorization", "Basic " + token, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if tt.wantStatus == http.StatusUnauthorized &&
				rec.Header().Get("Content-Type") != "application/json" {
				t.Errorf("401 should be JSON")
			}
		})
	}
}

func TestUserIDFromContext_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id, ok := UserIDFromContext(req.Context()); ok || id != "" {
		t.Errorf("got (%q, %v), want (\"\", false)", id, ok)
	}
}
