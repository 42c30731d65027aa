// Package storage keeps uploaded attachment files on local disk under
// uuid-derived names.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{root: root}, nil
}

// Save streams r to a new file and returns its absolute path and size. The
// stored name is a uuid plus the original extension; the original name is
// never used as a path component.
func (s *FileStore) Save(originalName string, r io.Reader) (string, int64, error) {
	ext := filepath.Ext(filepath.Base(strings.TrimSpace(originalName)))
	path := filepath.Join(s.root, uuid.NewString()+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("write file: %w", err)
	}
	return path, n, nil
}

func (s *FileStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
