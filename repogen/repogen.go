// Package repogen provides a generic bun repository shared by the SQL
// snapshot loaders. It works on any bun dialect.
package repogen

import "context"

// ReadOnlyRepo reads entities of type E selected by filter F.
type ReadOnlyRepo[E any, F any] interface {
	// List returns all entities matching the filters.
	List(ctx context.Context, filters F) ([]E, error)
	// Exists reports whether any entity matches the filters.
	Exists(ctx context.Context, filters F) (bool, error)
}

// Repo adds bulk writes to ReadOnlyRepo.
type Repo[E any, F any] interface {
	ReadOnlyRepo[E, F]
	// BulkCreate inserts entities in a single statement.
	BulkCreate(ctx context.Context, entities []E) error
	// CreateTable creates the entity table unless it exists.
	CreateTable(ctx context.Context) error
}
