package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/catalog/catalog"
	"github.com/rise-and-shine/catalog/catalog/catalogtest"
	"github.com/rise-and-shine/catalog/filestore"
	"github.com/rise-and-shine/catalog/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertSameCatalog(t *testing.T, want, got *catalog.Repository) {
	t.Helper()

	require.Len(t, got.Datasets(), len(want.Datasets()))
	for i, wds := range want.Datasets() {
		gds := got.Datasets()[i]
		assert.Equal(t, wds.Wire(), gds.Wire())

		for _, sc := range catalog.Schemas() {
			wrecs, grecs := wds.List(sc), gds.List(sc)
			require.Len(t, grecs, len(wrecs), "%s/%s", wds.Name(), sc.Plural)
			for j := range wrecs {
				assert.Equal(t, wrecs[j].Wire(4), grecs[j].Wire(4))
			}
		}
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := store.Config{
		Kind:             store.KindSQLite,
		Path:             filepath.Join(t.TempDir(), "catalog.db"),
		MaxSnapshotBytes: 1 << 20,
	}

	require.NoError(t, store.Seed(ctx, cfg, catalogtest.Snapshot()))

	repo, err := store.Open(ctx, cfg)
	require.NoError(t, err)
	assertSameCatalog(t, catalogtest.Repository(), repo)

	err = store.Seed(ctx, cfg, catalogtest.Snapshot())
	require.Error(t, err)
	assert.Equal(t, store.CodeAlreadySeeded, errx.AsErrorX(err).Code())
	assert.Equal(t, errx.T_Conflict, errx.AsErrorX(err).Type())
}

func TestSeedRejectsInvalidSnapshot(t *testing.T) {
	snap, err := catalog.ParseSnapshot("bad.yaml", []byte("datasets: [{name: d, records: {widgets: [{name: w}]}}]"))
	require.NoError(t, err)

	cfg := store.Config{Kind: store.KindSQLite, Path: filepath.Join(t.TempDir(), "catalog.db")}
	err = store.Seed(context.Background(), cfg, snap)
	require.Error(t, err)
	assert.Equal(t, catalog.CodeBadSnapshot, errx.AsErrorX(err).Code())
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, catalogtest.Fixture(), 0o600))

	tests := []struct {
		name  string
		limit int64
		code  string
	}{
		{name: "within limit", limit: 1 << 20},
		{name: "too large", limit: 16, code: filestore.CodeFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := store.Open(context.Background(), store.Config{
				Kind:             store.KindFile,
				Path:             path,
				MaxSnapshotBytes: tt.limit,
			})
			if tt.code != "" {
				require.Error(t, err)
				assert.Equal(t, tt.code, errx.AsErrorX(err).Code())
				return
			}
			require.NoError(t, err)
			assertSameCatalog(t, catalogtest.Repository(), repo)
		})
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := store.Open(context.Background(), store.Config{
		Kind: store.KindFile,
		Path: filepath.Join(t.TempDir(), "nope.yaml"),
	})
	require.Error(t, err)
	assert.Equal(t, filestore.CodeFileNotFound, errx.AsErrorX(err).Code())
	assert.Equal(t, errx.T_NotFound, errx.AsErrorX(err).Type())
}

func TestPushSnapshot(t *testing.T) {
	ctx := context.Background()
	fs := filestore.NewDir(t.TempDir())

	info, err := store.PushSnapshot(ctx, fs, "snapshots/catalog.yaml", catalogtest.Fixture())
	require.NoError(t, err)
	assert.Equal(t, filestore.ContentTypeYAML, info.ContentType)
	assert.Equal(t, int64(len(catalogtest.Fixture())), info.Size)

	snap, err := store.LoadSnapshot(ctx, fs, "snapshots/catalog.yaml", 0)
	require.NoError(t, err)
	repo, err := snap.Build()
	require.NoError(t, err)
	assertSameCatalog(t, catalogtest.Repository(), repo)

	_, err = store.PushSnapshot(ctx, fs, "broken.json", []byte("{"))
	require.Error(t, err)
	assert.Equal(t, catalog.CodeBadSnapshot, errx.AsErrorX(err).Code())

	exists, err := fs.Exists(ctx, "broken.json")
	require.NoError(t, err)
	assert.False(t, exists)
}
