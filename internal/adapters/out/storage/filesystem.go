// Package storage resolves rendered order documents on the local disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

// FileStore serves documents below a single root directory. Relative paths
// that would escape the root are rejected.
type FileStore struct {
	dir  string
	root *os.Root
}

func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errs.NewValueIsRequiredError("document root")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("document root", err)
	}
	if err = os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create document root: %w", err)
	}
	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("open document root: %w", err)
	}
	return &FileStore{dir: abs, root: root}, nil
}

func (s *FileStore) Close() error {
	return s.root.Close()
}

func (s *FileStore) Exists(_ context.Context, relPath string) (bool, error) {
	name, err := local(relPath)
	if err != nil {
		return false, err
	}
	info, err := s.root.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (s *FileStore) Path(relPath string) (string, error) {
	name, err := local(relPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

func (s *FileStore) Open(_ context.Context, relPath string) (io.ReadCloser, error) {
	name, err := local(relPath)
	if err != nil {
		return nil, err
	}
	f, err := s.root.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.NewObjectNotFoundErrorWithCause("document", relPath, err)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func local(relPath string) (string, error) {
	p := strings.TrimSpace(relPath)
	if p == "" {
		return "", errs.NewValueIsRequiredError("document path")
	}
	p = filepath.FromSlash(p)
	if !filepath.IsLocal(p) {
		return "", errs.NewValueIsInvalidErrorWithCause("document path", fmt.Errorf("%q escapes the document root", relPath))
	}
	return filepath.Clean(p), nil
}
