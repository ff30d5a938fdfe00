// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Every submission operation has the same shape:
//
//	load the submission → ask package access → mutate → save → return
//
// Access decisions live in package access, never inline here.
//
// DEPENDENCY INJECTION:
// Services take repository interfaces, not *sqlite.DB. Tests pass in-memory
// fakes (see submission_test.go); main.go passes the real database.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/xid"

	"github.com/sakif/review-hub/internal/access"
	"github.com/sakif/review-hub/internal/apperror"
	"github.com/sakif/review-hub/internal/model"
	"github.com/sakif/review-hub/internal/repository"
)

// Validation limits.
const (
	MaxTitleLength = 200
	MaxTextLength  = 10000
	MaxLinkLength  = 2048
)

// FileReleaser frees the stored file behind a link once nothing uses it.
// UploadService implements it.
type FileReleaser interface {
	Release(ctx context.Context, ownerID, link string) error
}

// CreateSubmissionInput is the body of POST /submissions.
type CreateSubmissionInput struct {
	Title       string `json:"title"`
	StorageLink string `json:"storage_link"`
}

// CommentInput is the body of PUT /submissions/comment/...
type CommentInput struct {
	Text string `json:"text"`
}

// ReviewInput is the body of PUT /submissions/reviews/...
type ReviewInput struct {
	Text        string `json:"text"`
	StorageLink string `json:"storage_link"`
}

// SubmissionService runs every submission operation.
type SubmissionService struct {
	subs   repository.SubmissionRepository
	users  repository.UserRepository
	files  FileReleaser // optional
	logger *slog.Logger
	now    func() time.Time
}

// NewSubmissionService creates a SubmissionService. files may be nil, in
// which case deleting a submission leaves its file in storage.
func NewSubmissionService(
	subs repository.SubmissionRepository,
	users repository.UserRepository,
	files FileReleaser,
	logger *slog.Logger,
) *SubmissionService {
	return &SubmissionService{
		subs:   subs,
		users:  users,
		files:  files,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// =========================================================================
// READS
// =========================================================================

// ListPublic returns every public submission, newest first. Private ids are
// blanked for every entry, the caller's own included: the listing is the
// same for everyone.
func (s *SubmissionService) ListPublic(ctx context.Context) ([]model.Submission, error) {
	subs, err := s.subs.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing public submissions: %w", err)
	}
	return redactAll(subs, ""), nil
}

// ListMine returns the caller's own submissions, private ones included.
func (s *SubmissionService) ListMine(ctx context.Context, callerID string) ([]model.Submission, error) {
	subs, err := s.subs.ListByOwner(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("listing submissions of %s: %w", callerID, err)
	}
	return redactAll(subs, callerID), nil
}

// Get returns one submission if the caller may read it. secret is
// access.SharedLink(...) on the /submissions/{id}/{privateID} route.
func (s *SubmissionService) Get(ctx context.Context, callerID, id string, secret access.Secret) (*model.Submission, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckRead(callerID, sub, secret); err != nil {
		return nil, err
	}
	return sub.Redacted(callerID), nil
}

// =========================================================================
// OWNER OPERATIONS
// =========================================================================

// Create stores a new private submission owned by the caller. The returned
// submission carries the private id so the owner can share it.
func (s *SubmissionService) Create(ctx context.Context, callerID string, in CreateSubmissionInput) (*model.Submission, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.StorageLink = strings.TrimSpace(in.StorageLink)

	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title,
			validation.Required.Error("you must provide a title for your submission"),
			validation.RuneLength(1, MaxTitleLength)),
		validation.Field(&in.StorageLink,
			validation.Required.Error("you must provide a link to the uploaded file"),
			validation.Length(1, MaxLinkLength)),
	)
	if err != nil {
		return nil, validationError(err)
	}

	owner, err := s.caller(ctx, callerID)
	if err != nil {
		return nil, err
	}

	sub := &model.Submission{
		OwnerID:     owner.ID,
		Title:       in.Title,
		StorageLink: in.StorageLink,
		IsPrivate:   true,
		PrivateID:   uuid.NewString(),
		OwnerName:   owner.Name,
		OwnerAvatar: owner.AvatarURL,
	}

	if err := s.subs.Create(ctx, sub); err != nil {
		s.logger.Error("failed to create submission",
			slog.String("owner", callerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating submission: %w", err)
	}

	s.logger.Info("submission created",
		slog.String("id", sub.ID),
		slog.String("owner", sub.OwnerID),
	)
	return sub, nil
}

// ToggleVisibility flips isPrivate. No operation sets it to a given value.
func (s *SubmissionService) ToggleVisibility(ctx context.Context, callerID, id string) (*model.Submission, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckOwner(callerID, sub); err != nil {
		return nil, err
	}

	sub.IsPrivate = !sub.IsPrivate

	if err := s.save(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("submission visibility changed",
		slog.String("id", sub.ID),
		slog.Bool("private", sub.IsPrivate),
	)
	return sub, nil
}

// Delete removes the submission and everything in it, then releases the
// stored file if nothing else links it. A failed release is logged, never
// returned: the submission is already gone.
func (s *SubmissionService) Delete(ctx context.Context, callerID, id string) error {
	sub, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := access.CheckOwner(callerID, sub); err != nil {
		return err
	}

	if err := s.subs.Delete(ctx, sub.ID); err != nil {
		return fmt.Errorf("deleting submission %s: %w", sub.ID, err)
	}

	s.logger.Info("submission deleted", slog.String("id", sub.ID))

	s.releaseFile(ctx, sub)
	return nil
}

// releaseFile hands the submission's file to the releaser unless another
// submission or a review still links it. Failures are logged only.
func (s *SubmissionService) releaseFile(ctx context.Context, sub *model.Submission) {
	if s.files == nil {
		return
	}

	refs, err := s.subs.CountLinkReferences(ctx, sub.StorageLink)
	if err != nil {
		s.logger.Warn("failed to count file references, keeping file",
			slog.String("id", sub.ID),
			slog.String("link", sub.StorageLink),
			slog.String("error", err.Error()),
		)
		return
	}
	if refs > 0 {
		s.logger.Debug("file still referenced, keeping it",
			slog.String("link", sub.StorageLink),
			slog.Int("references", refs),
		)
		return
	}

	if err := s.files.Release(ctx, sub.OwnerID, sub.StorageLink); err != nil {
		s.logger.Warn("failed to release submission file",
			slog.String("id", sub.ID),
			slog.String("link", sub.StorageLink),
			slog.String("error", err.Error()),
		)
	}
}

// =========================================================================
// COMMENTS
// =========================================================================

// AddComment puts a new comment at the front of the list.
func (s *SubmissionService) AddComment(ctx context.Context, callerID, id string, secret access.Secret, in CommentInput) ([]model.Comment, error) {
	in.Text = strings.TrimSpace(in.Text)
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Text,
			validation.Required.Error("you must provide text for your comment"),
			validation.RuneLength(1, MaxTextLength)),
	)
	if err != nil {
		return nil, validationError(err)
	}

	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckEntryWrite(sub, secret); err != nil {
		return nil, err
	}

	author, err := s.caller(ctx, callerID)
	if err != nil {
		return nil, err
	}

	sub.PrependComment(model.Comment{
		ID:           xid.New().String(),
		AuthorID:     author.ID,
		Text:         in.Text,
		AuthorName:   author.Name,
		AuthorAvatar: author.AvatarURL,
		CreatedAt:    s.now(),
	})

	if err := s.save(ctx, sub); err != nil {
		return nil, err
	}
	return sub.Comments, nil
}

// DeleteComment removes exactly the comment with commentID.
func (s *SubmissionService) DeleteComment(ctx context.Context, callerID, id, commentID string, secret access.Secret) ([]model.Comment, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckEntryWrite(sub, secret); err != nil {
		return nil, err
	}

	i := sub.FindComment(commentID)
	if i < 0 {
		return nil, apperror.NotFound("comment", commentID)
	}
	if err := access.CheckEntryAuthor(callerID, sub.Comments[i].AuthorID); err != nil {
		return nil, err
	}

	sub.RemoveCommentAt(i)

	if err := s.save(ctx, sub); err != nil {
		return nil, err
	}
	return sub.Comments, nil
}

// =========================================================================
// REVIEWS
// =========================================================================

// AddReview puts the caller's review at the front. One review per user.
func (s *SubmissionService) AddReview(ctx context.Context, callerID, id string, secret access.Secret, in ReviewInput) ([]model.Review, error) {
	in.Text = strings.TrimSpace(in.Text)
	in.StorageLink = strings.TrimSpace(in.StorageLink)
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Text,
			validation.Required.Error("you must provide text for your review"),
			validation.RuneLength(1, MaxTextLength)),
		validation.Field(&in.StorageLink,
			validation.Required.Error("you must provide a link to the uploaded file"),
			validation.Length(1, MaxLinkLength)),
	)
	if err != nil {
		return nil, validationError(err)
	}

	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckEntryWrite(sub, secret); err != nil {
		return nil, err
	}
	if sub.HasReviewBy(callerID) {
		return nil, apperror.Conflict("submission already reviewed by this user")
	}

	author, err := s.caller(ctx, callerID)
	if err != nil {
		return nil, err
	}

	sub.PrependReview(model.Review{
		ID:           xid.New().String(),
		AuthorID:     author.ID,
		Text:         in.Text,
		StorageLink:  in.StorageLink,
		AuthorName:   author.Name,
		AuthorAvatar: author.AvatarURL,
		CreatedAt:    s.now(),
	})

	if err := s.save(ctx, sub); err != nil {
		return nil, err
	}
	return sub.Reviews, nil
}

// DeleteReview removes exactly the review with reviewID.
func (s *SubmissionService) DeleteReview(ctx context.Context, callerID, id, reviewID string, secret access.Secret) ([]model.Review, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckEntryWrite(sub, secret); err != nil {
		return nil, err
	}

	i := sub.FindReview(reviewID)
	if i < 0 {
		return nil, apperror.NotFound("review", reviewID)
	}
	if err := access.CheckEntryAuthor(callerID, sub.Reviews[i].AuthorID); err != nil {
		return nil, err
	}

	sub.RemoveReviewAt(i)

	if err := s.save(ctx, sub); err != nil {
		return nil, err
	}
	return sub.Reviews, nil
}

// =========================================================================
// LIKES
// =========================================================================

// Like adds the caller's like. Liking twice is a Conflict, not a no-op.
func (s *SubmissionService) Like(ctx context.Context, callerID, id string) ([]model.Like, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckLike(sub); err != nil {
		return nil, err
	}
	if sub.LikeIndex(callerID) >= 0 {
		return nil, apperror.Conflict("submission already liked")
	}

	sub.PrependLike(callerID)

	if err := s.save(ctx, sub); err != nil {
		return nil, err
	}
	return sub.Likes, nil
}

// Unlike removes the caller's like. Unliking without a like is a Conflict.
func (s *SubmissionService) Unlike(ctx context.Context, callerID, id string) ([]model.Like, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckLike(sub); err != nil {
		return nil, err
	}

	i := sub.LikeIndex(callerID)
	if i < 0 {
		return nil, apperror.Conflict("submission has not yet been liked")
	}

	sub.RemoveLikeAt(i)

	if err := s.save(ctx, sub); err != nil {
		return nil, err
	}
	return sub.Likes, nil
}

// =========================================================================
// HELPERS
// =========================================================================

// load returns (nil, nil) when the submission does not exist, so the access
// rules, not the store, decide what the caller is told.
func (s *SubmissionService) load(ctx context.Context, id string) (*model.Submission, error) {
	sub, err := s.subs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("failed to load submission",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("loading submission %s: %w", id, err)
	}
	return sub, nil
}

func (s *SubmissionService) save(ctx context.Context, sub *model.Submission) error {
	if err := s.subs.Save(ctx, sub); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// Deleted between load and save.
			return access.ErrNotFound()
		}
		s.logger.Error("failed to save submission",
			slog.String("id", sub.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("saving submission %s: %w", sub.ID, err)
	}
	return nil
}

// caller loads the authenticated user for the name/avatar snapshot.
func (s *SubmissionService) caller(ctx context.Context, callerID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthenticated("user no longer exists")
		}
		return nil, fmt.Errorf("loading user %s: %w", callerID, err)
	}
	return user, nil
}

func redactAll(subs []model.Submission, callerID string) []model.Submission {
	out := make([]model.Submission, len(subs))
	for i := range subs {
		out[i] = *subs[i].Redacted(callerID)
	}
	return out
}
