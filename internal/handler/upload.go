package handler

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/review-hub/internal/apperror"
	"github.com/sakif/review-hub/internal/model"
	"github.com/sakif/review-hub/internal/service"
)

// uploadField is the multipart form field the file arrives in.
const uploadField = "file"

// UploadResponse is the answer to POST /uploads. The client passes URL on as
// the storage_link of a submission or review.
type UploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// UploadHandler accepts document uploads and deletions.
type UploadHandler struct {
	uploads *service.UploadService
	logger  *slog.Logger
}

func NewUploadHandler(uploads *service.UploadService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{uploads: uploads, logger: logger}
}

// HandleUpload stores exactly one PDF from a multipart form.
//
// HTTP: POST /v1/uploads
// Content-Type: multipart/form-data, field "file"
//
// MaxBytesReader caps the whole request (file plus multipart framing), so an
// oversized upload is cut off while it streams in rather than after.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// 1 MiB of headroom for the multipart boundaries and headers.
	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxBytes()+(1<<20))
	if err := r.ParseMultipartForm(h.uploads.MaxBytes()); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, apperror.ValidationFailed(uploadField, "file is too large"))
			return
		}
		writeError(w, r, apperror.ValidationFailed(uploadField, "no file uploaded"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	headers := r.MultipartForm.File[uploadField]
	switch len(headers) {
	case 0:
		writeError(w, r, apperror.ValidationFailed(uploadField, "no file uploaded"))
		return
	case 1:
	default:
		writeError(w, r, apperror.ValidationFailed(uploadField, "upload exactly one file"))
		return
	}

	up, err := h.store(r, caller, headers[0])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UploadResponse{URL: up.URL, Key: up.Key})
}

func (h *UploadHandler) store(r *http.Request, caller string, fh *multipart.FileHeader) (*model.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return h.uploads.Upload(r.Context(), caller, service.UploadInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
}

// HandleDelete removes an upload the caller made.
//
// HTTP: DELETE /v1/uploads/{fileName}
func (h *UploadHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.uploads.Delete(r.Context(), caller, chi.URLParam(r, "fileName")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Msg: "File removed"})
}
