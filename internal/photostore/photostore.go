package photostore

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("image not found")

// PhotoStore keeps uploaded images addressed by a generated filename. The
// filename is what a collection point stores in its image column.
type PhotoStore interface {
	Save(ctx context.Context, mimeType string, r io.Reader) (filename string, err error)
	Get(ctx context.Context, filename string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, filename string) error
}
