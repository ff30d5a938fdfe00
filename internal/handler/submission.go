package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/review-hub/internal/access"
	"github.com/sakif/review-hub/internal/service"
)

// privateIDParam is the route parameter that carries a submission's shared
// secret on the shared-link variants of each route.
const privateIDParam = "privateID"

// SubmissionHandler exposes SubmissionService over HTTP. It parses the
// request, calls the service and writes the result; every access decision
// happens below it.
type SubmissionHandler struct {
	subs   *service.SubmissionService
	logger *slog.Logger
}

func NewSubmissionHandler(subs *service.SubmissionService, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{subs: subs, logger: logger}
}

// Routes mounts every submission route. The caller wraps it in RequireAuth.
//
// Shared-link variants are registered next to their plain routes:
//
//	PUT /comment/{id}               → no secret
//	PUT /comment/{id}/{privateID}   → secret from the URL
//
// PUT /comment/{id}/{privateID} and DELETE /comment/{id}/{commentID} put
// different names on the same segment. chi stores param names per method
// on the shared node, so each method sees its own name. The same holds for
// /reviews. TestSecretFrom pins this; keep it passing when upgrading chi.
func (h *SubmissionHandler) Routes(r chi.Router) {
	r.Get("/", h.HandleListPublic)
	r.Post("/", h.HandleCreate)
	r.Get("/me", h.HandleListMine)

	r.Put("/like/{id}", h.HandleLike)
	r.Put("/unlike/{id}", h.HandleUnlike)
	r.Put("/private/{id}", h.HandleToggleVisibility)

	r.Put("/comment/{id}", h.HandleAddComment)
	r.Put("/comment/{id}/{privateID}", h.HandleAddComment)
	r.Delete("/comment/{id}/{commentID}", h.HandleDeleteComment)
	r.Delete("/comment/{id}/{commentID}/{privateID}", h.HandleDeleteComment)

	r.Put("/reviews/{id}", h.HandleAddReview)
	r.Put("/reviews/{id}/{privateID}", h.HandleAddReview)
	r.Delete("/reviews/{id}/{reviewID}", h.HandleDeleteReview)
	r.Delete("/reviews/{id}/{reviewID}/{privateID}", h.HandleDeleteReview)

	r.Get("/{id}", h.HandleGet)
	r.Get("/{id}/{privateID}", h.HandleGet)
	r.Delete("/{id}", h.HandleDelete)
}

// secretFrom reports the private id when the matched route has a
// {privateID} segment. The key's presence, not its value, decides: an empty
// value on a shared-link route must still reach the "missing secret" rule.
func secretFrom(r *http.Request) access.Secret {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return access.NoSecret()
	}
	for i, key := range rctx.URLParams.Keys {
		if key == privateIDParam {
			return access.SharedLink(rctx.URLParams.Values[i])
		}
	}
	return access.NoSecret()
}

// HandleListPublic returns every public submission, newest first.
//
// HTTP: GET /v1/submissions
func (h *SubmissionHandler) HandleListPublic(w http.ResponseWriter, r *http.Request) {
	subs, err := h.subs.ListPublic(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// HandleListMine returns the caller's own submissions.
//
// HTTP: GET /v1/submissions/me
func (h *SubmissionHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	subs, err := h.subs.ListMine(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// HandleGet returns one submission.
//
// HTTP: GET /v1/submissions/{id}
// HTTP: GET /v1/submissions/{id}/{privateID}
func (h *SubmissionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sub, err := h.subs.Get(r.Context(), caller, chi.URLParam(r, "id"), secretFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// HandleCreate stores a new, private submission.
//
// HTTP: POST /v1/submissions
// REQUEST BODY: {"title": "...", "storage_link": "https://..."}
func (h *SubmissionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in service.CreateSubmissionInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	sub, err := h.subs.Create(r.Context(), caller, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// HandleToggleVisibility flips a submission between private and public.
//
// HTTP: PUT /v1/submissions/private/{id}
func (h *SubmissionHandler) HandleToggleVisibility(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sub, err := h.subs.ToggleVisibility(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// HandleDelete removes a submission.
//
// HTTP: DELETE /v1/submissions/{id}
func (h *SubmissionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.subs.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Msg: "Submission removed"})
}

// HandleAddComment returns the updated comment list.
//
// HTTP: PUT /v1/submissions/comment/{id}[/{privateID}]
// REQUEST BODY: {"text": "..."}
func (h *SubmissionHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in service.CommentInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	comments, err := h.subs.AddComment(r.Context(), caller, chi.URLParam(r, "id"), secretFrom(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// HandleDeleteComment returns the remaining comments.
//
// HTTP: DELETE /v1/submissions/comment/{id}/{commentID}[/{privateID}]
func (h *SubmissionHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	comments, err := h.subs.DeleteComment(r.Context(), caller,
		chi.URLParam(r, "id"), chi.URLParam(r, "commentID"), secretFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// HandleAddReview returns the updated review list.
//
// HTTP: PUT /v1/submissions/reviews/{id}[/{privateID}]
// REQUEST BODY: {"text": "...", "storage_link": "https://..."}
func (h *SubmissionHandler) HandleAddReview(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in service.ReviewInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	reviews, err := h.subs.AddReview(r.Context(), caller, chi.URLParam(r, "id"), secretFrom(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// HandleDeleteReview returns the remaining reviews.
//
// HTTP: DELETE /v1/submissions/reviews/{id}/{reviewID}[/{privateID}]
func (h *SubmissionHandler) HandleDeleteReview(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	reviews, err := h.subs.DeleteReview(r.Context(), caller,
		chi.URLParam(r, "id"), chi.URLParam(r, "reviewID"), secretFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// HandleLike returns the updated like list.
//
// HTTP: PUT /v1/submissions/like/{id}
func (h *SubmissionHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	likes, err := h.subs.Like(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, likes)
}

// HandleUnlike returns the updated like list.
//
// HTTP: PUT /v1/submissions/unlike/{id}
func (h *SubmissionHandler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	likes, err := h.subs.Unlike(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, likes)
}
