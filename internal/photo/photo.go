// Package photo stores completion photos as opaque blobs keyed by
// handle. The rest of the system never looks inside a photo.
package photo

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is the blob collaborator contract: save bytes and get back a
// handle, check a handle, open a handle.
type Store interface {
	Save(ctx context.Context, data []byte, suggestedName string) (string, error)
	Exists(ctx context.Context, handle string) (bool, error)
	Open(ctx context.Context, handle string) (io.ReadCloser, error)
}

// DirStore keeps photos in a local directory, one file per handle.
type DirStore struct {
	dir string
}

func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

func (s *DirStore) Save(_ context.Context, data []byte, suggestedName string) (string, error) {
	handle := newHandle(suggestedName)
	path := filepath.Join(s.dir, handle)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return handle, nil
}

func (s *DirStore) Exists(_ context.Context, handle string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.dir, cleanHandle(handle)))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat photo: %w", err)
	}
	return true, nil
}

func (s *DirStore) Open(_ context.Context, handle string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, cleanHandle(handle)))
	if err != nil {
		return nil, fmt.Errorf("open photo: %w", err)
	}
	return f, nil
}

// newHandle builds a unique, filesystem-safe handle that keeps the
// original extension so served photos get a sensible content type.
func newHandle(suggestedName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(suggestedName)))
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s%s", timestamp, uuid.NewString()[:8], ext)
}

// cleanHandle strips any path components from a caller-supplied handle.
func cleanHandle(handle string) string {
	return filepath.Base(handle)
}
