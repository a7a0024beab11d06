package ports

import (
	"context"
	"io"
)

// DocumentStore resolves the relative paths recorded on order items.
type DocumentStore interface {
	Exists(ctx context.Context, relPath string) (bool, error)
	// Path returns the location print backends read from.
	Path(relPath string) (string, error)
	Open(ctx context.Context, relPath string) (io.ReadCloser, error)
}
