package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/catalog/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentTypeOf(t *testing.T) {
	tests := map[string]string{
		"a/catalog.json": filestore.ContentTypeJSON,
		"catalog.YAML":   filestore.ContentTypeYAML,
		"catalog.yml":    filestore.ContentTypeYAML,
		"catalog.db":     filestore.ContentTypeOctetStream,
	}
	for path, want := range tests {
		assert.Equal(t, want, filestore.ContentTypeOf(path), path)
	}
}

func TestDirStaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	fs := filestore.NewDir(root)

	_, err := fs.Upload(ctx, "../../escape.yaml", strings.NewReader("x"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "escape.yaml"))
	assert.NoError(t, err)

	_, err = fs.Upload(ctx, "..", strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, errx.T_Validation, errx.AsErrorX(err).Type())
}

func TestReadAll(t *testing.T) {
	ctx := context.Background()
	fs := filestore.NewDir(t.TempDir())

	_, err := fs.Upload(ctx, "s.json", strings.NewReader(`{"datasets":[]}`))
	require.NoError(t, err)

	tests := []struct {
		name  string
		path  string
		limit int64
		want  string
		code  string
	}{
		{name: "unlimited", path: "s.json", want: `{"datasets":[]}`},
		{name: "exact limit", path: "s.json", limit: 15, want: `{"datasets":[]}`},
		{name: "over limit", path: "s.json", limit: 14, code: filestore.CodeFileTooLarge},
		{name: "missing", path: "none.json", code: filestore.CodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := filestore.ReadAll(ctx, fs, tt.path, tt.limit)
			if tt.code != "" {
				require.Error(t, err)
				assert.Equal(t, tt.code, errx.AsErrorX(err).Code())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}

	ok, err := fs.Exists(ctx, "s.json")
	require.NoError(t, err)
	assert.True(t, ok)
}
