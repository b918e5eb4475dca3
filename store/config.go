package store

import (
	"github.com/rise-and-shine/catalog/filestore/miniowr"
	"github.com/rise-and-shine/catalog/pg"
)

// Source kinds.
const (
	KindFile     = "file"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
	KindMinio    = "minio"
)

// Config selects where the catalog is loaded from.
type Config struct {
	Kind string `yaml:"kind" default:"file" validate:"oneof=file sqlite postgres minio"`

	// Path is the snapshot file for kind file and the database file for
	// kind sqlite.
	Path string `yaml:"path" validate:"required_if=Kind file,required_if=Kind sqlite"`

	// Object is the snapshot object name in the MinIO bucket.
	Object string `yaml:"object" validate:"required_if=Kind minio"`

	// Schema qualifies the catalog tables on postgres.
	Schema string `yaml:"schema"`

	MaxSnapshotBytes int64 `yaml:"max_snapshot_bytes" default:"67108864" validate:"gt=0"`

	Postgres *pg.Config      `yaml:"postgres" validate:"required_if=Kind postgres"`
	Minio    *miniowr.Config `yaml:"minio"    validate:"required_if=Kind minio"`
}
