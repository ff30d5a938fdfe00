package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/review-hub/internal/apperror"
	"github.com/sakif/review-hub/internal/model"
	"github.com/sakif/review-hub/internal/repository"
)

// compile-time check that *DB implements repository.UploadRepository
var _ repository.UploadRepository = (*DB)(nil)

// CreateUpload records a stored object. CreatedAt is filled in here.
func (db *DB) CreateUpload(ctx context.Context, u *model.Upload) error {
	u.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO uploads (key, user_id, url, content_type, size, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Key, u.OwnerID, u.URL, u.ContentType, u.Size, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting upload %s: %w", u.Key, err)
	}
	return nil
}

// GetUpload returns apperror.ErrNotFound when key is unknown.
func (db *DB) GetUpload(ctx context.Context, key string) (*model.Upload, error) {
	var u model.Upload
	err := db.conn.QueryRowContext(ctx,
		`SELECT key, user_id, url, content_type, size, created_at FROM uploads WHERE key = ?`, key,
	).Scan(&u.Key, &u.OwnerID, &u.URL, &u.ContentType, &u.Size, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("file", key)
		}
		return nil, fmt.Errorf("sqlite: getting upload %s: %w", key, err)
	}
	return &u, nil
}

// DeleteUpload removes the record for key.
func (db *DB) DeleteUpload(ctx context.Context, key string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM uploads WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("sqlite: deleting upload %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting upload %s: %w", key, err)
	}
	if n == 0 {
		return apperror.NotFound("file", key)
	}
	return nil
}
