package filestore

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/code19m/errx"
)

var _ FileStore = (*Dir)(nil)

// Dir is a FileStore rooted at a local directory.
type Dir struct {
	root string
}

// NewDir returns a FileStore serving paths relative to root.
func NewDir(root string) *Dir {
	if root == "" {
		root = "."
	}
	return &Dir{root: root}
}

func (d *Dir) Upload(_ context.Context, path string, reader io.Reader) (*FileInfo, error) {
	full, err := d.resolve(path)
	if err != nil {
		return nil, err
	}

	if err = os.MkdirAll(filepath.Dir(full), 0o755); err != nil { //nolint:mnd // directory permissions
		return nil, errx.Wrap(err)
	}

	f, err := os.Create(full)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	defer f.Close()

	if _, err = io.Copy(f, reader); err != nil {
		return nil, errx.Wrap(err)
	}

	return d.stat(path, full)
}

func (d *Dir) Get(_ context.Context, path string) (*File, error) {
	full, err := d.resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := d.stat(path, full)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &File{Content: f, Info: *info}, nil
}

func (d *Dir) Exists(_ context.Context, path string) (bool, error) {
	full, err := d.resolve(path)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(full)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, errx.Wrap(err)
	}
}

func (d *Dir) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + path)
	if strings.Trim(clean, "/") == "" {
		return "", errx.New("empty object path", errx.WithType(errx.T_Validation))
	}
	return filepath.Join(d.root, clean), nil
}

func (d *Dir) stat(path, full string) (*FileInfo, error) {
	st, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errx.New(
			"file not found",
			errx.WithCode(CodeFileNotFound),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"path": path}),
		)
	}
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &FileInfo{
		Path:         path,
		Size:         st.Size(),
		ContentType:  ContentTypeOf(path),
		LastModified: st.ModTime(),
	}, nil
}
