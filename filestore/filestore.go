// Package filestore abstracts where catalog snapshots are stored.
//
// Dir serves snapshots from a local directory and miniowr from a MinIO
// bucket. Both implementations are safe for concurrent use.
package filestore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/code19m/errx"
)

// FileStore stores and retrieves objects by path.
type FileStore interface {
	// Upload stores the reader's content at path. The content type is
	// derived from the path extension.
	Upload(ctx context.Context, path string, reader io.Reader) (*FileInfo, error)

	// Get opens the object at path. The caller closes File.Content.
	Get(ctx context.Context, path string) (*File, error)

	// Exists reports whether an object exists at path.
	Exists(ctx context.Context, path string) (bool, error)
}

// File is an opened object with its metadata.
type File struct {
	Content io.ReadCloser
	Info    FileInfo
}

// FileInfo describes a stored object.
type FileInfo struct {
	Path         string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// ReadAll fetches the object at path and reads at most limit bytes of it.
// A non-positive limit reads everything.
func ReadAll(ctx context.Context, fs FileStore, path string, limit int64) ([]byte, error) {
	f, err := fs.Get(ctx, path)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	defer f.Content.Close()

	r := f.Content
	if limit > 0 {
		r = io.NopCloser(io.LimitReader(f.Content, limit+1))
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}

	if limit > 0 && int64(len(data)) > limit {
		return nil, errx.New(
			fmt.Sprintf("object exceeds %d bytes", limit),
			errx.WithCode(CodeFileTooLarge),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"path": path}),
		)
	}

	return data, nil
}
