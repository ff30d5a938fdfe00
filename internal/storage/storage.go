// Package storage defines where uploaded documents live.
//
// The rest of the application only sees ObjectStore: put bytes under a key
// and get a public URL back, or delete by key. Two implementations exist:
//
//   - disk: files under a local directory, served by this server at /files/
//   - s3:   an S3 bucket (AWS or any S3-compatible service such as MinIO)
package storage

import (
	"context"
	"io"
	"net/url"
	"path"
	"strings"
)

// ObjectStore stores uploaded files by key.
type ObjectStore interface {
	// Put stores size bytes from body under key and returns the public URL.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ValidKey reports whether key is a bare file name: no directories and no
// path tricks. Keys coming from URLs or route params must pass this check
// before they reach a store.
func ValidKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	return !strings.ContainsAny(key, `/\`)
}

// KeyFromURL extracts the object key (last path segment) from a URL that a
// store returned. ok is false when link has no usable key.
func KeyFromURL(link string) (key string, ok bool) {
	u, err := url.Parse(link)
	if err != nil || u.Path == "" {
		return "", false
	}
	key = path.Base(u.Path)
	return key, ValidKey(key)
}
