package usecase_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/catalog/catalog/catalogtest"
	"github.com/rise-and-shine/catalog/filestore"
	"github.com/rise-and-shine/catalog/store"
	"github.com/rise-and-shine/catalog/usecase"
	"github.com/rise-and-shine/catalog/val"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushSnapshot(t *testing.T) {
	ctx := context.Background()
	fs := filestore.NewDir(t.TempDir())
	uc := usecase.NewPushSnapshot(fs)

	tests := []struct {
		name string
		in   *usecase.PushSnapshotInput
		code string
	}{
		{name: "valid", in: &usecase.PushSnapshotInput{Object: "catalog.yaml", Data: catalogtest.Fixture()}},
		{name: "missing object", in: &usecase.PushSnapshotInput{Data: catalogtest.Fixture()}, code: val.CodeValidationFailed},
		{name: "missing data", in: &usecase.PushSnapshotInput{Object: "x.yaml"}, code: val.CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := uc.Execute(ctx, tt.in)
			if tt.code != "" {
				require.Error(t, err)
				assert.Equal(t, tt.code, errx.AsErrorX(err).Code())
				return
			}
			require.NoError(t, err)

			ok, err := fs.Exists(ctx, tt.in.Object)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestSeedCatalog(t *testing.T) {
	ctx := context.Background()
	cfg := store.Config{
		Kind:             store.KindSQLite,
		Path:             filepath.Join(t.TempDir(), "catalog.db"),
		MaxSnapshotBytes: 1 << 20,
	}

	err := usecase.NewSeedCatalog(cfg).Execute(ctx, &usecase.SeedCatalogInput{Snapshot: catalogtest.Snapshot()})
	require.NoError(t, err)

	repo, err := store.Open(ctx, cfg)
	require.NoError(t, err)
	assert.Len(t, repo.Datasets(), len(catalogtest.Repository().Datasets()))
}
