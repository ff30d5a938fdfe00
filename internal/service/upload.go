package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sakif/review-hub/internal/apperror"
	"github.com/sakif/review-hub/internal/model"
	"github.com/sakif/review-hub/internal/repository"
	"github.com/sakif/review-hub/internal/storage"
)

// DefaultMaxUploadBytes caps a single document at 10 MiB.
const DefaultMaxUploadBytes int64 = 10 << 20

const pdfContentType = "application/pdf"

// UploadInput is one file taken from a multipart request.
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadService stores documents in the object store and remembers who
// uploaded each one.
type UploadService struct {
	files    storage.ObjectStore
	uploads  repository.UploadRepository
	maxBytes int64
	logger   *slog.Logger
}

// NewUploadService creates an UploadService. A non-positive maxBytes means
// DefaultMaxUploadBytes.
func NewUploadService(files storage.ObjectStore, uploads repository.UploadRepository, maxBytes int64, logger *slog.Logger) *UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadService{files: files, uploads: uploads, maxBytes: maxBytes, logger: logger}
}

// MaxBytes is the largest accepted file.
func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// Upload stores a PDF under a fresh "<uuid>.pdf" key and returns its record.
// The client's file name is never used as the key.
func (s *UploadService) Upload(ctx context.Context, callerID string, in UploadInput) (*model.Upload, error) {
	if in.Body == nil || in.Size <= 0 {
		return nil, apperror.ValidationFailed("file", "no file uploaded")
	}
	if in.Size > s.maxBytes {
		return nil, apperror.ValidationFailed("file",
			fmt.Sprintf("file must be %d bytes or smaller", s.maxBytes))
	}
	if !isPDF(in.Filename, in.ContentType) {
		return nil, apperror.ValidationFailed("file", "only PDF files are accepted")
	}

	key := uuid.NewString() + ".pdf"

	url, err := s.files.Put(ctx, key, in.Body, in.Size, pdfContentType)
	if err != nil {
		s.logger.Error("failed to store upload",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("storing upload: %w", err)
	}

	up := &model.Upload{
		Key:         key,
		OwnerID:     callerID,
		URL:         url,
		ContentType: pdfContentType,
		Size:        in.Size,
	}
	if err := s.uploads.CreateUpload(ctx, up); err != nil {
		// Without a record nobody could delete the object later.
		if derr := s.files.Delete(ctx, key); derr != nil {
			s.logger.Warn("failed to clean up unrecorded upload",
				slog.String("key", key),
				slog.String("error", derr.Error()),
			)
		}
		return nil, fmt.Errorf("recording upload: %w", err)
	}

	s.logger.Info("file uploaded",
		slog.String("key", key),
		slog.String("owner", callerID),
		slog.Int64("size", in.Size),
	)
	return up, nil
}

// Delete removes an upload. Only its uploader may do so.
func (s *UploadService) Delete(ctx context.Context, callerID, key string) error {
	if !storage.ValidKey(key) {
		return apperror.ValidationFailed("file_name", "invalid file name")
	}

	up, err := s.uploads.GetUpload(ctx, key)
	if err != nil {
		return err
	}
	if up.OwnerID != callerID {
		return apperror.Unauthorized("user not authorized")
	}

	return s.remove(ctx, up)
}

// Release deletes the upload behind link if ownerID uploaded it. Links to
// files someone else uploaded, or to other hosts, are left alone.
func (s *UploadService) Release(ctx context.Context, ownerID, link string) error {
	key, ok := storage.KeyFromURL(link)
	if !ok {
		return nil
	}

	up, err := s.uploads.GetUpload(ctx, key)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		return err
	}
	if up.OwnerID != ownerID || up.URL != link {
		return nil
	}

	return s.remove(ctx, up)
}

func (s *UploadService) remove(ctx context.Context, up *model.Upload) error {
	if err := s.files.Delete(ctx, up.Key); err != nil {
		return fmt.Errorf("deleting stored file %s: %w", up.Key, err)
	}
	if err := s.uploads.DeleteUpload(ctx, up.Key); err != nil {
		return fmt.Errorf("deleting upload record %s: %w", up.Key, err)
	}

	s.logger.Info("file deleted", slog.String("key", up.Key))
	return nil
}

// isPDF accepts either signal: browsers disagree on the content type they
// send for PDFs, so the extension counts too.
func isPDF(filename, contentType string) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt == pdfContentType {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}
