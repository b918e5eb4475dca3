package usecase

import (
	"context"

	"github.com/code19m/errx"

	"github.com/rise-and-shine/catalog/catalog"
	"github.com/rise-and-shine/catalog/filestore"
	"github.com/rise-and-shine/catalog/observability/logger"
	"github.com/rise-and-shine/catalog/store"
	"github.com/rise-and-shine/catalog/ucdef"
	"github.com/rise-and-shine/catalog/val"
)

var (
	_ ucdef.ManualCommand[*PushSnapshotInput] = (*PushSnapshot)(nil)
	_ ucdef.ManualCommand[*SeedCatalogInput]  = (*SeedCatalog)(nil)
)

// PushSnapshotInput names the object and carries the encoded snapshot.
type PushSnapshotInput struct {
	Object string `json:"object" validate:"required"`
	Data   []byte `json:"-"      validate:"required"`
}

// PushSnapshot validates a snapshot and uploads it to the snapshot store.
type PushSnapshot struct{ fs filestore.FileStore }

// NewPushSnapshot returns the command.
func NewPushSnapshot(fs filestore.FileStore) *PushSnapshot { return &PushSnapshot{fs} }

func (uc *PushSnapshot) OperationID() string { return "push-snapshot" }

func (uc *PushSnapshot) Execute(ctx context.Context, in *PushSnapshotInput) error {
	if err := val.ValidateSchema(in); err != nil {
		return errx.Wrap(err)
	}

	info, err := store.PushSnapshot(ctx, uc.fs, in.Object, in.Data)
	if err != nil {
		return errx.Wrap(err)
	}

	logger.Named(uc.OperationID()).WithContext(ctx).
		With("object", info.Path, "size", info.Size, "content_type", info.ContentType, "etag", info.ETag).
		Info("snapshot uploaded")
	return nil
}

// SeedCatalogInput carries the snapshot to write.
type SeedCatalogInput struct {
	Snapshot catalog.Snapshot
}

// SeedCatalog writes a snapshot into the configured SQL store.
type SeedCatalog struct{ cfg store.Config }

// NewSeedCatalog returns the command.
func NewSeedCatalog(cfg store.Config) *SeedCatalog { return &SeedCatalog{cfg} }

func (uc *SeedCatalog) OperationID() string { return "seed-catalog" }

func (uc *SeedCatalog) Execute(ctx context.Context, in *SeedCatalogInput) error {
	if err := store.Seed(ctx, uc.cfg, in.Snapshot); err != nil {
		return errx.Wrap(err)
	}

	logger.Named(uc.OperationID()).WithContext(ctx).
		With("source", uc.cfg.Kind, "datasets", len(in.Snapshot.Datasets)).
		Info("catalog seeded")
	return nil
}
