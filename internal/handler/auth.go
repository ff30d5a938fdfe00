package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/review-hub/internal/auth"
	"github.com/sakif/review-hub/internal/service"
)

const stateCookie = "oauth_state"

// AuthHandler manages accounts: password registration and login, the
// current-user lookup, and the optional GitHub sign-in.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister       → create an account, answer with a token
//   - HandleLogin          → check credentials, answer with a token
//   - HandleMe             → return the authenticated user
//   - HandleGitHubLogin    → redirect the browser to GitHub
//   - HandleGitHubCallback → exchange the code, answer with a token
//
// Tokens travel in the JSON body; the client sends them back as
// "Authorization: Bearer" or "x-auth-token".
type AuthHandler struct {
	accounts *service.AuthService
	github   *auth.GitHubProvider // nil when GitHub sign-in is not configured
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler. github may be nil.
func NewAuthHandler(accounts *service.AuthService, github *auth.GitHubProvider, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, github: github, logger: logger}
}

// GitHubEnabled reports whether the GitHub routes should be mounted.
func (h *AuthHandler) GitHubEnabled() bool { return h.github != nil }

// HandleRegister creates an account.
//
// HTTP: POST /v1/users
// REQUEST BODY: {"name": "...", "email": "...", "password": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// HandleLogin exchanges email and password for a token.
//
// HTTP: POST /v1/auth
// REQUEST BODY: {"email": "...", "password": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.accounts.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// HandleMe returns the currently authenticated user. The password hash is
// never serialized.
//
// HTTP: GET /v1/auth
// Auth: Required
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.accounts.Me(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleGitHubLogin redirects the browser to GitHub's authorization page.
//
// HTTP: GET /v1/auth/github/login
//
// CSRF PROTECTION VIA STATE:
// A random state goes into a short-lived cookie and into the redirect URL.
// The callback only proceeds when GitHub hands the same state back, which
// proves this server started the flow.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the GitHub flow and answers with a token.
//
// HTTP: GET /v1/auth/github/callback?code=xxx&state=yyy
//
// FLOW:
//  1. Validate the state parameter (CSRF check)
//  2. Exchange the code for the GitHub profile
//  3. Find or create the account with that email
//  4. Answer {"token": "..."}
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || q.Get("state") != cookie.Value {
		h.logger.Warn("github callback: state mismatch")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid OAuth state",
		})
		return
	}

	// Single use.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	if denied := q.Get("error"); denied != "" {
		h.logger.Info("github callback: authorization denied", slog.String("error", denied))
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "GitHub authorization was denied",
		})
		return
	}

	code := q.Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "missing OAuth code",
		})
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("github callback: exchange failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "GitHub authentication failed",
		})
		return
	}

	token, err := h.accounts.LoginWithGitHub(r.Context(), ghUser)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}
