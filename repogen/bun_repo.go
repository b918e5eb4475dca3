package repogen

import (
	"context"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/catalog/pg"
	"github.com/uptrace/bun"
)

var _ Repo[struct{}, struct{}] = (*BunRepo[struct{}, struct{}])(nil)

// FilterFunc narrows a select query by the filter value.
type FilterFunc[F any] func(q *bun.SelectQuery, filters F) *bun.SelectQuery

// BunRepo implements Repo on top of bun.
type BunRepo[E any, F any] struct {
	idb        bun.IDB
	schemaName string
	filterFunc FilterFunc[F]
}

// BunRepoBuilder configures a BunRepo.
type BunRepoBuilder[E any, F any] struct {
	repo BunRepo[E, F]
}

// NewBunRepoBuilder returns a builder with no schema qualifier and a
// pass-through filter.
func NewBunRepoBuilder[E any, F any](idb bun.IDB) *BunRepoBuilder[E, F] {
	return &BunRepoBuilder[E, F]{repo: BunRepo[E, F]{
		idb:        idb,
		filterFunc: func(q *bun.SelectQuery, _ F) *bun.SelectQuery { return q },
	}}
}

// WithSchemaName qualifies the table with a schema. Empty leaves it
// unqualified, which is what sqlite needs.
func (b *BunRepoBuilder[E, F]) WithSchemaName(name string) *BunRepoBuilder[E, F] {
	b.repo.schemaName = name
	return b
}

// WithFilterFunc sets the filter function.
func (b *BunRepoBuilder[E, F]) WithFilterFunc(fn FilterFunc[F]) *BunRepoBuilder[E, F] {
	b.repo.filterFunc = fn
	return b
}

// Build returns the configured repository.
func (b *BunRepoBuilder[E, F]) Build() *BunRepo[E, F] {
	r := b.repo
	return &r
}

func (r *BunRepo[E, F]) List(ctx context.Context, filters F) ([]E, error) {
	entities := make([]E, 0)
	q := r.idb.NewSelect().Model(&entities)
	q = r.filterFunc(r.applyModelTableExpr(q), filters)

	if err := q.Scan(ctx); err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
	}
	return entities, nil
}

func (r *BunRepo[E, F]) Exists(ctx context.Context, filters F) (bool, error) {
	q := r.idb.NewSelect().Model((*E)(nil))
	q = r.filterFunc(r.applyModelTableExpr(q), filters)

	exists, err := q.Exists(ctx)
	if err != nil {
		return false, errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
	}
	return exists, nil
}

func (r *BunRepo[E, F]) BulkCreate(ctx context.Context, entities []E) error {
	if len(entities) == 0 {
		return nil
	}

	q := r.idb.NewInsert().Model(&entities)
	if r.schemaName != "" {
		table := q.GetModel().(bun.TableModel).Table() //nolint:errcheck // slice models always have a table
		q = q.ModelTableExpr("?.?", bun.Ident(r.schemaName), bun.Ident(table.Name))
	}

	if _, err := q.Exec(ctx); err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
	}
	return nil
}

func (r *BunRepo[E, F]) CreateTable(ctx context.Context) error {
	q := r.idb.NewCreateTable().Model((*E)(nil)).IfNotExists()
	if r.schemaName != "" {
		table := q.GetModel().(bun.TableModel).Table() //nolint:errcheck // struct models always have a table
		q = q.ModelTableExpr("?.?", bun.Ident(r.schemaName), bun.Ident(table.Name))
	}

	if _, err := q.Exec(ctx); err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, nil)))
	}
	return nil
}

func (r *BunRepo[E, F]) applyModelTableExpr(q *bun.SelectQuery) *bun.SelectQuery {
	table := q.GetModel().(bun.TableModel).Table() //nolint:errcheck // table name is always available
	if r.schemaName == "" {
		return q.ModelTableExpr("? AS ?", bun.Ident(table.Name), bun.Ident(table.Alias))
	}
	return q.ModelTableExpr("?.? AS ?", bun.Ident(r.schemaName), bun.Ident(table.Name), bun.Ident(table.Alias))
}
