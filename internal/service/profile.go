package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rs/xid"

	"github.com/sakif/review-hub/internal/apperror"
	"github.com/sakif/review-hub/internal/model"
	"github.com/sakif/review-hub/internal/repository"
)

// ProfileInput is the body of POST /profile. Empty fields keep their
// current value.
type ProfileInput struct {
	Website       string              `json:"website"`
	Location      string              `json:"location"`
	Bio           string              `json:"bio"`
	TwitterHandle string              `json:"twitterhandle"`
	Publications  []model.Publication `json:"publications"`
}

// PublicationInput is the body of PUT /profile/publications.
type PublicationInput struct {
	Title       string `json:"title"`
	Publication string `json:"publication"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// ProfileService manages the optional public profile shown next to a user's
// submissions.
type ProfileService struct {
	profiles repository.ProfileRepository
	logger   *slog.Logger
}

func NewProfileService(profiles repository.ProfileRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, logger: logger}
}

// Me returns the caller's profile, or NotFound when they have none yet.
func (s *ProfileService) Me(ctx context.Context, callerID string) (*model.Profile, error) {
	return s.GetByUserID(ctx, callerID)
}

// GetByUserID returns one user's profile.
func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.profiles.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("getting profile of %s: %w", userID, err)
	}
	return p, nil
}

// List returns every profile.
func (s *ProfileService) List(ctx context.Context) ([]model.Profile, error) {
	profiles, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	return profiles, nil
}

// Upsert creates the caller's profile or overwrites the non-empty fields of
// the existing one. A non-nil Publications list replaces the old list.
func (s *ProfileService) Upsert(ctx context.Context, callerID string, in ProfileInput) (*model.Profile, error) {
	in.Website = strings.TrimSpace(in.Website)
	in.Location = strings.TrimSpace(in.Location)
	in.Bio = strings.TrimSpace(in.Bio)
	in.TwitterHandle = strings.TrimPrefix(strings.TrimSpace(in.TwitterHandle), "@")

	err := validation.ValidateStruct(&in,
		validation.Field(&in.Website, is.URL.Error("website must be a valid URL")),
		validation.Field(&in.Bio, validation.RuneLength(0, MaxTextLength)),
		validation.Field(&in.Publications, validation.Each(validation.By(validatePublication))),
	)
	if err != nil {
		return nil, validationError(err)
	}

	current, err := s.profiles.GetProfileByUserID(ctx, callerID)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		current = &model.Profile{UserID: callerID}
	case err != nil:
		return nil, fmt.Errorf("loading profile of %s: %w", callerID, err)
	}

	merge(&current.Website, in.Website)
	merge(&current.Location, in.Location)
	merge(&current.Bio, in.Bio)
	merge(&current.TwitterHandle, in.TwitterHandle)
	if in.Publications != nil {
		current.Publications = withIDs(in.Publications)
	}

	if err := s.profiles.UpsertProfile(ctx, current); err != nil {
		return nil, fmt.Errorf("saving profile of %s: %w", callerID, err)
	}

	s.logger.Info("profile updated", slog.String("userID", callerID))

	// Re-read so the joined name and avatar are filled in.
	return s.GetByUserID(ctx, callerID)
}

// AddPublication puts a new publication at the front of the caller's list.
// The caller must already have a profile.
func (s *ProfileService) AddPublication(ctx context.Context, callerID string, in PublicationInput) (*model.Profile, error) {
	pub := model.Publication{
		Title:       strings.TrimSpace(in.Title),
		Publication: strings.TrimSpace(in.Publication),
		Link:        strings.TrimSpace(in.Link),
		Description: strings.TrimSpace(in.Description),
	}
	if err := validatePublication(pub); err != nil {
		return nil, validationError(err)
	}

	current, err := s.GetByUserID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	pub.ID = xid.New().String()
	current.Publications = append([]model.Publication{pub}, withIDs(current.Publications)...)

	if err := s.profiles.UpsertProfile(ctx, current); err != nil {
		return nil, fmt.Errorf("saving profile of %s: %w", callerID, err)
	}

	s.logger.Info("publication added",
		slog.String("userID", callerID),
		slog.String("publication", pub.ID),
	)
	return s.GetByUserID(ctx, callerID)
}

// DeletePublication removes exactly the publication with pubID from the
// caller's list.
func (s *ProfileService) DeletePublication(ctx context.Context, callerID, pubID string) (*model.Profile, error) {
	current, err := s.GetByUserID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	i := current.FindPublication(pubID)
	if i < 0 {
		return nil, apperror.NotFound("publication", pubID)
	}
	current.Publications = slices.Delete(current.Publications, i, i+1)

	if err := s.profiles.UpsertProfile(ctx, current); err != nil {
		return nil, fmt.Errorf("saving profile of %s: %w", callerID, err)
	}

	s.logger.Info("publication removed",
		slog.String("userID", callerID),
		slog.String("publication", pubID),
	)
	return s.GetByUserID(ctx, callerID)
}

// withIDs gives every publication without an id a fresh one.
func withIDs(pubs []model.Publication) []model.Publication {
	out := slices.Clone(pubs)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = xid.New().String()
		}
	}
	return out
}

func validatePublication(value any) error {
	p, ok := value.(model.Publication)
	if !ok {
		return errors.New("invalid publication")
	}
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required.Error("publication title is required")),
		validation.Field(&p.Link, validation.Required.Error("publication link is required"), is.URL),
		validation.Field(&p.Publication, validation.Required.Error("publication name is required")),
	)
}

func merge(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
