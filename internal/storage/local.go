// Package storage persists uploaded document files. Metadata lives in the
// database; only the file bytes go through here.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"docmanager/internal/models"

	"github.com/google/uuid"
)

// BlobStore stores and retrieves document files by key. Keys are opaque to
// callers and recorded on the document row.
type BlobStore interface {
	Save(ctx context.Context, r io.Reader, documentType, year, filename string) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// LocalStore keeps files under a root directory on local disk, grouped by
// document type and year.
type LocalStore struct {
	root string
}

// NewLocalStore creates a store rooted at the given directory, creating it
// if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Save(ctx context.Context, r io.Reader, documentType, year, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := filepath.Join(
		"documents",
		sanitizeSegment(documentType),
		sanitizeSegment(year),
		uuid.NewString()+strings.ToLower(filepath.Ext(filename)),
	)
	full := filepath.Join(s.root, key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", models.NewInternalError(err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", models.NewInternalError(err)
	}
	if err := f.Close(); err != nil {
		return "", models.NewInternalError(err)
	}
	return key, nil
}

func (s *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.root, filepath.Clean(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.NewNotFoundError("Document file", key)
		}
		return nil, models.NewInternalError(err)
	}
	return f, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(s.root, filepath.Clean(key)))
	if err != nil && !os.IsNotExist(err) {
		return models.NewInternalError(err)
	}
	return nil
}

// sanitizeSegment makes a value safe to use as a single path segment.
func sanitizeSegment(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "uncategorized"
	}
	v = strings.ToLower(v)
	v = strings.ReplaceAll(v, " ", "_")
	var b strings.Builder
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "uncategorized"
	}
	return b.String()
}
