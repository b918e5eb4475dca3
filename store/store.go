// Package store loads the catalog from its backing store: a YAML or JSON
// snapshot file, a MinIO object, or the catalog tables in sqlite or
// postgres. The loaded repository is read-only.
package store

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/catalog/catalog"
	"github.com/rise-and-shine/catalog/filestore"
	"github.com/rise-and-shine/catalog/filestore/miniowr"
	"github.com/rise-and-shine/catalog/observability/logger"
	"github.com/rise-and-shine/catalog/pg"
)

// Open loads the snapshot described by cfg and builds the repository.
func Open(ctx context.Context, cfg Config) (*catalog.Repository, error) {
	snap, err := Snapshot(ctx, cfg)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"source": cfg.Kind}))
	}

	repo, err := snap.Build()
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"source": cfg.Kind}))
	}

	logger.Named("store").With("source", cfg.Kind, "datasets", len(repo.Datasets())).Info("catalog loaded")

	return repo, nil
}

// Snapshot reads the raw snapshot described by cfg.
func Snapshot(ctx context.Context, cfg Config) (catalog.Snapshot, error) {
	switch cfg.Kind {
	case KindFile:
		dir, name := filepath.Split(cfg.Path)
		return LoadSnapshot(ctx, filestore.NewDir(dir), name, cfg.MaxSnapshotBytes)

	case KindMinio:
		client, err := miniowr.New(*cfg.Minio)
		if err != nil {
			return catalog.Snapshot{}, errx.Wrap(err)
		}
		return LoadSnapshot(ctx, client, cfg.Object, cfg.MaxSnapshotBytes)

	case KindSQLite:
		db, err := OpenSQLite(cfg.Path, false)
		if err != nil {
			return catalog.Snapshot{}, errx.Wrap(err)
		}
		defer db.Close()
		return ReadSQL(ctx, db, "")

	case KindPostgres:
		db, err := pg.NewBunDB(*cfg.Postgres)
		if err != nil {
			return catalog.Snapshot{}, errx.Wrap(err)
		}
		defer db.Close()
		return ReadSQL(ctx, db, cfg.Schema)

	default:
		return catalog.Snapshot{}, errx.New(
			fmt.Sprintf("unknown source kind %q", cfg.Kind),
			errx.WithCode(CodeUnknownSource),
			errx.WithType(errx.T_Validation),
		)
	}
}

// LoadSnapshot fetches and decodes a snapshot object. The object's
// extension picks the format.
func LoadSnapshot(ctx context.Context, fs filestore.FileStore, path string, limit int64) (catalog.Snapshot, error) {
	data, err := filestore.ReadAll(ctx, fs, path, limit)
	if err != nil {
		return catalog.Snapshot{}, errx.Wrap(err)
	}

	snap, err := catalog.ParseSnapshot(path, data)
	if err != nil {
		return catalog.Snapshot{}, errx.Wrap(err)
	}
	return snap, nil
}

// PushSnapshot validates a snapshot and uploads it to fs at path.
func PushSnapshot(ctx context.Context, fs filestore.FileStore, path string, data []byte) (*filestore.FileInfo, error) {
	snap, err := catalog.ParseSnapshot(path, data)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	if _, err = snap.Build(); err != nil {
		return nil, errx.Wrap(err)
	}

	info, err := fs.Upload(ctx, path, bytes.NewReader(data))
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return info, nil
}

// Seed writes the snapshot into the SQL store described by cfg.
func Seed(ctx context.Context, cfg Config, snap catalog.Snapshot) error {
	switch cfg.Kind {
	case KindSQLite:
		db, err := OpenSQLite(cfg.Path, false)
		if err != nil {
			return errx.Wrap(err)
		}
		defer db.Close()
		return WriteSQL(ctx, db, "", snap)

	case KindPostgres:
		db, err := pg.NewBunDB(*cfg.Postgres)
		if err != nil {
			return errx.Wrap(err)
		}
		defer db.Close()
		return WriteSQL(ctx, db, cfg.Schema, snap)

	default:
		return errx.New(
			fmt.Sprintf("source kind %q cannot be seeded", cfg.Kind),
			errx.WithCode(CodeUnknownSource),
			errx.WithType(errx.T_Validation),
		)
	}
}
