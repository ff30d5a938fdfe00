package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sakif/review-hub/internal/apperror"
	"github.com/sakif/review-hub/internal/model"
	"github.com/sakif/review-hub/internal/repository"
)

// compile-time check that *DB implements repository.ProfileRepository
var _ repository.ProfileRepository = (*DB)(nil)

// Publications are a small list that is always read and written whole, so
// they live in a JSON text column instead of a table of their own.
const profileSelect = `SELECT p.user_id, u.name, u.avatar_url, p.website, p.location,
	p.bio, p.twitter_handle, p.publications
	FROM profiles p JOIN users u ON u.id = p.user_id`

// UpsertProfile inserts the profile or replaces the existing one for the user.
func (db *DB) UpsertProfile(ctx context.Context, p *model.Profile) error {
	if p.Publications == nil {
		p.Publications = []model.Publication{}
	}
	pubs, err := json.Marshal(p.Publications)
	if err != nil {
		return fmt.Errorf("sqlite: encoding publications: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO profiles (user_id, website, location, bio, twitter_handle, publications, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   website = excluded.website,
		   location = excluded.location,
		   bio = excluded.bio,
		   twitter_handle = excluded.twitter_handle,
		   publications = excluded.publications,
		   updated_at = excluded.updated_at`,
		p.UserID,
		p.Website,
		p.Location,
		p.Bio,
		p.TwitterHandle,
		string(pubs),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting profile for %s: %w", p.UserID, err)
	}
	return nil
}

// GetProfileByUserID returns apperror.ErrNotFound when the user has no profile.
func (db *DB) GetProfileByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	rows, err := db.conn.QueryContext(ctx, profileSelect+` WHERE p.user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting profile %s: %w", userID, err)
	}
	profiles, err := scanProfiles(rows)
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting profile %s: %w", userID, err)
	}
	if len(profiles) == 0 {
		return nil, apperror.NotFoundMessage("there is no profile for this user")
	}
	return &profiles[0], nil
}

// ListProfiles returns every profile, most recently updated first.
func (db *DB) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	rows, err := db.conn.QueryContext(ctx, profileSelect+` ORDER BY p.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing profiles: %w", err)
	}
	profiles, err := scanProfiles(rows)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing profiles: %w", err)
	}
	return profiles, nil
}

func scanProfiles(rows *sql.Rows) ([]model.Profile, error) {
	profiles := []model.Profile{}
	for rows.Next() {
		var (
			p    model.Profile
			pubs string
		)
		if err := rows.Scan(&p.UserID, &p.Name, &p.Avatar, &p.Website, &p.Location,
			&p.Bio, &p.TwitterHandle, &pubs); err != nil {
			rows.Close()
			return nil, err
		}
		if err := json.Unmarshal([]byte(pubs), &p.Publications); err != nil {
			rows.Close()
			return nil, fmt.Errorf("decoding publications: %w", err)
		}
		if p.Publications == nil {
			p.Publications = []model.Publication{}
		}
		profiles = append(profiles, p)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	return profiles, nil
}
