package repository

import (
	"context"

	"github.com/sakif/review-hub/internal/model"
)

// SubmissionRepository persists submissions together with their comments,
// reviews and likes. The store treats a submission as one document: Save
// rewrites the whole thing, sub-collections included.
//
// GetByID returns an apperror.ErrNotFound error when nothing matches.
// CountLinkReferences counts the submissions and reviews whose storage link
// is exactly link.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) error
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	Save(ctx context.Context, sub *model.Submission) error
	Delete(ctx context.Context, id string) error
	ListPublic(ctx context.Context) ([]model.Submission, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Submission, error)
	CountLinkReferences(ctx context.Context, link string) (int, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type ProfileRepository interface {
	UpsertProfile(ctx context.Context, profile *model.Profile) error
	GetProfileByUserID(ctx context.Context, userID string) (*model.Profile, error)
	ListProfiles(ctx context.Context) ([]model.Profile, error)
}

// UploadRepository tracks stored objects and their uploader.
type UploadRepository interface {
	CreateUpload(ctx context.Context, upload *model.Upload) error
	GetUpload(ctx context.Context, key string) (*model.Upload, error)
	DeleteUpload(ctx context.Context, key string) error
}
