package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/review-hub/internal/service"
)

// ProfileHandler serves the public author profiles.
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

func NewProfileHandler(profiles *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// Routes mounts the profile routes. The caller wraps it in RequireAuth.
func (h *ProfileHandler) Routes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleUpsert)
	r.Get("/me", h.HandleMe)
	r.Get("/user/{userID}", h.HandleGetByUser)
	r.Put("/publications", h.HandleAddPublication)
	r.Delete("/publications/{pubID}", h.HandleDeletePublication)
}

// HTTP: GET /v1/profile
func (h *ProfileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// HTTP: GET /v1/profile/me
func (h *ProfileHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.profiles.Me(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HTTP: GET /v1/profile/user/{userID}
func (h *ProfileHandler) HandleGetByUser(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.GetByUserID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleUpsert creates or updates the caller's profile.
//
// HTTP: POST /v1/profile
// REQUEST BODY: {"website": "...", "location": "...", "bio": "...",
// "twitterhandle": "...", "publications": [...]}
func (h *ProfileHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in service.ProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.profiles.Upsert(r.Context(), caller, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleAddPublication prepends a publication to the caller's profile.
//
// HTTP: PUT /v1/profile/publications
// REQUEST BODY: {"title": "...", "publication": "...", "link": "...", "description": "..."}
func (h *ProfileHandler) HandleAddPublication(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in service.PublicationInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.profiles.AddPublication(r.Context(), caller, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HTTP: DELETE /v1/profile/publications/{pubID}
func (h *ProfileHandler) HandleDeletePublication(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.profiles.DeletePublication(r.Context(), caller, chi.URLParam(r, "pubID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
