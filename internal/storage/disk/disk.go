// Package disk keeps uploaded files in a local directory. The server mounts
// that directory at /files/, so the URL returned by Put is directly fetchable.
package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sakif/review-hub/internal/storage"
)

// compile-time check that *Store implements storage.ObjectStore
var _ storage.ObjectStore = (*Store)(nil)

// Store writes objects as files under dir and builds URLs from baseURL.
type Store struct {
	dir     string
	baseURL string
}

// New creates dir if needed. baseURL is the public prefix files are served
// under, e.g. "http://localhost:8080/files".
func New(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("disk: creating %s: %w", dir, err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory files are stored in.
func (s *Store) Dir() string { return s.dir }

// Put writes body to dir/key. The file is written under a temporary name and
// renamed into place, so a reader never sees a half-written document.
func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, _ string) (string, error) {
	if !storage.ValidKey(key) {
		return "", fmt.Errorf("disk: invalid key %q", key)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("disk: creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	n, err := io.Copy(tmp, io.LimitReader(body, size+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("disk: writing %s: %w", key, err)
	}
	if n != size {
		return "", fmt.Errorf("disk: %s: wrote %d bytes, expected %d", key, n, size)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, key)); err != nil {
		return "", fmt.Errorf("disk: storing %s: %w", key, err)
	}

	return s.baseURL + "/" + key, nil
}

// Delete removes dir/key. A missing file is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	if !storage.ValidKey(key) {
		return fmt.Errorf("disk: invalid key %q", key)
	}

	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("disk: deleting %s: %w", key, err)
	}
	return nil
}
