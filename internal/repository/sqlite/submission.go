package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/review-hub/internal/apperror"
	"github.com/sakif/review-hub/internal/model"
	"github.com/sakif/review-hub/internal/repository"
)

// compile-time check that *DB implements repository.SubmissionRepository
var _ repository.SubmissionRepository = (*DB)(nil)

const submissionColumns = `id, user_id, title, storage_link, is_private, private_id,
	owner_name, owner_avatar, created_at`

// querier is the part of *sql.DB and *sql.Tx the collection helpers need,
// so the same code runs inside and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Create inserts a new submission with its collections.
// ID and CreatedAt are assigned here; PrivateID must already be set.
func (db *DB) Create(ctx context.Context, sub *model.Submission) error {
	sub.ID = xid.New().String()
	sub.CreatedAt = time.Now().UTC()
	sub.EnsureCollections()

	err := db.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO submissions (`+submissionColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sub.ID,
			sub.OwnerID,
			sub.Title,
			sub.StorageLink,
			sub.IsPrivate,
			sub.PrivateID,
			sub.OwnerName,
			sub.OwnerAvatar,
			sub.CreatedAt,
		)
		if err != nil {
			return err
		}
		return writeCollections(ctx, tx, sub)
	})
	if err != nil {
		return fmt.Errorf("sqlite: inserting submission: %w", err)
	}
	return nil
}

// GetByID loads one submission and its collections.
// Returns apperror.ErrNotFound if no submission exists with that ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)

	var sub model.Submission
	err := row.Scan(
		&sub.ID,
		&sub.OwnerID,
		&sub.Title,
		&sub.StorageLink,
		&sub.IsPrivate,
		&sub.PrivateID,
		&sub.OwnerName,
		&sub.OwnerAvatar,
		&sub.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("submission", id)
		}
		return nil, fmt.Errorf("sqlite: getting submission %s: %w", id, err)
	}

	if err := loadCollections(ctx, db.conn, &sub); err != nil {
		return nil, fmt.Errorf("sqlite: loading collections for %s: %w", id, err)
	}
	return &sub, nil
}

// Save writes the whole document back: parent columns and every collection.
//
// The owner, private id and creation time are never rewritten; they are
// fixed for the life of the submission.
func (db *DB) Save(ctx context.Context, sub *model.Submission) error {
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE submissions SET title = ?, storage_link = ?, is_private = ?
			 WHERE id = ?`,
			sub.Title,
			sub.StorageLink,
			sub.IsPrivate,
			sub.ID,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return apperror.NotFound("submission", sub.ID)
		}

		if err := clearCollections(ctx, tx, sub.ID); err != nil {
			return err
		}
		return writeCollections(ctx, tx, sub)
	})
	if err != nil {
		return fmt.Errorf("sqlite: saving submission %s: %w", sub.ID, err)
	}
	return nil
}

// Delete removes a submission and its collections.
func (db *DB) Delete(ctx context.Context, id string) error {
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		if err := clearCollections(ctx, tx, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM submissions WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return apperror.NotFound("submission", id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sqlite: deleting submission %s: %w", id, err)
	}
	return nil
}

// ListPublic returns every public submission, newest first.
func (db *DB) ListPublic(ctx context.Context) ([]model.Submission, error) {
	return db.list(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE is_private = 0
		 ORDER BY created_at DESC, rowid DESC`)
}

// ListByOwner returns all of one user's submissions, newest first.
func (db *DB) ListByOwner(ctx context.Context, ownerID string) ([]model.Submission, error) {
	return db.list(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE user_id = ?
		 ORDER BY created_at DESC, rowid DESC`, ownerID)
}

// CountLinkReferences counts submissions and reviews that link exactly link.
func (db *DB) CountLinkReferences(ctx context.Context, link string) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM submissions WHERE storage_link = ?)
		      + (SELECT COUNT(*) FROM submission_reviews WHERE storage_link = ?)`,
		link, link,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting references to %s: %w", link, err)
	}
	return n, nil
}

func (db *DB) list(ctx context.Context, query string, args ...any) ([]model.Submission, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing submissions: %w", err)
	}

	// Read every parent row before loading collections: with a single
	// connection, a second query cannot run while rows is still open.
	subs := []model.Submission{}
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(
			&s.ID,
			&s.OwnerID,
			&s.Title,
			&s.StorageLink,
			&s.IsPrivate,
			&s.PrivateID,
			&s.OwnerName,
			&s.OwnerAvatar,
			&s.CreatedAt,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("sqlite: scanning submission: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("sqlite: iterating submissions: %w", err)
	}
	rows.Close()

	for i := range subs {
		if err := loadCollections(ctx, db.conn, &subs[i]); err != nil {
			return nil, fmt.Errorf("sqlite: loading collections for %s: %w", subs[i].ID, err)
		}
	}
	return subs, nil
}

// =========================================================================
// COLLECTIONS
// =========================================================================

func clearCollections(ctx context.Context, q querier, submissionID string) error {
	for _, table := range []string{"submission_comments", "submission_reviews", "submission_likes"} {
		if _, err := q.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE submission_id = ?`, submissionID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

func writeCollections(ctx context.Context, q querier, sub *model.Submission) error {
	for i, c := range sub.Comments {
		_, err := q.ExecContext(ctx,
			`INSERT INTO submission_comments
			 (submission_id, id, position, user_id, text, name, avatar, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sub.ID, c.ID, i, c.AuthorID, c.Text, c.AuthorName, c.AuthorAvatar, c.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting comment %s: %w", c.ID, err)
		}
	}

	for i, r := range sub.Reviews {
		_, err := q.ExecContext(ctx,
			`INSERT INTO submission_reviews
			 (submission_id, id, position, user_id, text, storage_link, name, avatar, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sub.ID, r.ID, i, r.AuthorID, r.Text, r.StorageLink, r.AuthorName, r.AuthorAvatar, r.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting review %s: %w", r.ID, err)
		}
	}

	for i, l := range sub.Likes {
		_, err := q.ExecContext(ctx,
			`INSERT INTO submission_likes (submission_id, position, user_id) VALUES (?, ?, ?)`,
			sub.ID, i, l.AuthorID,
		)
		if err != nil {
			return fmt.Errorf("inserting like by %s: %w", l.AuthorID, err)
		}
	}
	return nil
}

func loadCollections(ctx context.Context, q querier, sub *model.Submission) error {
	sub.EnsureCollections()

	rows, err := q.QueryContext(ctx,
		`SELECT id, user_id, text, name, avatar, created_at
		 FROM submission_comments WHERE submission_id = ? ORDER BY position`, sub.ID)
	if err != nil {
		return fmt.Errorf("querying comments: %w", err)
	}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.Text, &c.AuthorName, &c.AuthorAvatar, &c.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scanning comment: %w", err)
		}
		sub.Comments = append(sub.Comments, c)
	}
	if err := closeRows(rows); err != nil {
		return fmt.Errorf("iterating comments: %w", err)
	}

	rows, err = q.QueryContext(ctx,
		`SELECT id, user_id, text, storage_link, name, avatar, created_at
		 FROM submission_reviews WHERE submission_id = ? ORDER BY position`, sub.ID)
	if err != nil {
		return fmt.Errorf("querying reviews: %w", err)
	}
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(&r.ID, &r.AuthorID, &r.Text, &r.StorageLink, &r.AuthorName, &r.AuthorAvatar, &r.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scanning review: %w", err)
		}
		sub.Reviews = append(sub.Reviews, r)
	}
	if err := closeRows(rows); err != nil {
		return fmt.Errorf("iterating reviews: %w", err)
	}

	rows, err = q.QueryContext(ctx,
		`SELECT user_id FROM submission_likes WHERE submission_id = ? ORDER BY position`, sub.ID)
	if err != nil {
		return fmt.Errorf("querying likes: %w", err)
	}
	for rows.Next() {
		var l model.Like
		if err := rows.Scan(&l.AuthorID); err != nil {
			rows.Close()
			return fmt.Errorf("scanning like: %w", err)
		}
		sub.Likes = append(sub.Likes, l)
	}
	if err := closeRows(rows); err != nil {
		return fmt.Errorf("iterating likes: %w", err)
	}

	return nil
}

// closeRows closes rows and reports any iteration error.
func closeRows(rows *sql.Rows) error {
	err := rows.Err()
	if cerr := rows.Close(); err == nil {
		err = cerr
	}
	return err
}
