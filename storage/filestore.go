// Package storage persists uploaded prescription files on local disk.
// Objects are addressed by slash-separated keys under a configured root
// directory; failures propagate to the caller as errors.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/giygas/prescriptions-api/interfaces"
	"github.com/giygas/prescriptions-api/logging"
)

// Compile-time check to ensure FileStore implements ObjectStore
var _ interfaces.ObjectStore = (*FileStore)(nil)

// FileStore is a disk-backed object store rooted at a single directory
type FileStore struct {
	root string
}

// NewFileStore creates a file store rooted at root
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// PrescriptionKey builds the storage key for an uploaded prescription,
// partitioned by upload date: prescriptions/YYYY/MM/DD/<fileName>.
func PrescriptionKey(fileName string, now time.Time) string {
	return fmt.Sprintf("prescriptions/%s/%s", now.Format("2006/01/02"), fileName)
}

// Put writes the object bytes under key. The content type is recorded in
// a sidecar file so the original upload type survives a restart.
func (fs *FileStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("storage write cancelled: %w", err)
	}

	if err := validateKey(key); err != nil {
		return err
	}

	path := filepath.Join(fs.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create storage directory for %s: %w", key, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write object %s: %w", key, err)
	}

	if contentType != "" {
		if err := os.WriteFile(path+".content-type", []byte(contentType), 0644); err != nil {
			// The object itself is stored; losing the sidecar is not fatal
			logging.Warn("Failed to write content-type sidecar", "key", key, "error", err)
		}
	}

	logging.Debug("Stored object", "key", key, "bytes", len(data), "content_type", contentType)
	return nil
}

// validateKey rejects keys that would escape the storage root
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty storage key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return fmt.Errorf("invalid storage key: %s", key)
	}
	return nil
}
