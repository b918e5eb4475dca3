package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/catalog/catalog"
	"github.com/rise-and-shine/catalog/pg/hooks"
	"github.com/rise-and-shine/catalog/repogen"
	"github.com/spf13/cast"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

type datasetRow struct {
	bun.BaseModel `bun:"table:catalog_datasets,alias:d"`

	ID          int64  `bun:"id,pk,autoincrement"`
	Name        string `bun:"name,notnull,unique"`
	Description string `bun:"description"`
}

type recordRow struct {
	bun.BaseModel `bun:"table:catalog_records,alias:r"`

	ID         int64          `bun:"id,pk,autoincrement"`
	Dataset    string         `bun:"dataset,notnull"`
	Endpoint   string         `bun:"endpoint,notnull"`
	Name       string         `bun:"name,notnull"`
	Parent     string         `bun:"parent"`
	Attributes map[string]any `bun:"attributes"`
}

type rowFilter struct {
	Dataset string
	Names   []string
}

func datasetRepo(idb bun.IDB, schema string) *repogen.BunRepo[datasetRow, rowFilter] {
	return repogen.NewBunRepoBuilder[datasetRow, rowFilter](idb).
		WithSchemaName(schema).
		WithFilterFunc(func(q *bun.SelectQuery, f rowFilter) *bun.SelectQuery {
			if len(f.Names) > 0 {
				q = q.Where("d.name IN (?)", bun.In(f.Names))
			}
			return q.Order("d.id")
		}).
		Build()
}

func recordRepo(idb bun.IDB, schema string) *repogen.BunRepo[recordRow, rowFilter] {
	return repogen.NewBunRepoBuilder[recordRow, rowFilter](idb).
		WithSchemaName(schema).
		WithFilterFunc(func(q *bun.SelectQuery, f rowFilter) *bun.SelectQuery {
			if f.Dataset != "" {
				q = q.Where("r.dataset = ?", f.Dataset)
			}
			return q.Order("r.id")
		}).
		Build()
}

// OpenSQLite opens a sqlite database file through bun.
func OpenSQLite(path string, debug bool) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}
	// a single connection keeps writes serialized
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	hooks.Install(db, debug)

	return db, nil
}

// ReadSQL reads the catalog tables back into a snapshot. Records keep their
// insertion order.
func ReadSQL(ctx context.Context, db bun.IDB, schema string) (catalog.Snapshot, error) {
	datasets, err := datasetRepo(db, schema).List(ctx, rowFilter{})
	if err != nil {
		return catalog.Snapshot{}, errx.Wrap(err)
	}

	records, err := recordRepo(db, schema).List(ctx, rowFilter{})
	if err != nil {
		return catalog.Snapshot{}, errx.Wrap(err)
	}

	snap := catalog.Snapshot{Datasets: make([]catalog.DatasetDoc, len(datasets))}
	index := make(map[string]int, len(datasets))
	for i, d := range datasets {
		snap.Datasets[i] = catalog.DatasetDoc{
			Name:        d.Name,
			Description: d.Description,
			Records:     make(map[string][]catalog.RecordDoc),
		}
		index[d.Name] = i
	}

	for _, r := range records {
		i, ok := index[r.Dataset]
		if !ok {
			return catalog.Snapshot{}, errx.New(
				fmt.Sprintf("record %q references unknown dataset %q", r.Name, r.Dataset),
				errx.WithCode(CodeOrphanRecord),
				errx.WithType(errx.T_Validation),
				errx.WithDetails(errx.D{"endpoint": r.Endpoint}),
			)
		}

		doc := make(catalog.RecordDoc, len(r.Attributes)+2) //nolint:mnd // name and parent
		for k, v := range r.Attributes {
			doc[k] = v
		}
		doc["name"] = r.Name
		if r.Parent != "" {
			doc["parent"] = r.Parent
		}

		ds := &snap.Datasets[i]
		ds.Records[r.Endpoint] = append(ds.Records[r.Endpoint], doc)
	}

	return snap, nil
}

// WriteSQL creates the catalog tables if needed and inserts the snapshot in
// one transaction. Datasets that are already present are rejected.
func WriteSQL(ctx context.Context, db *bun.DB, schema string, snap catalog.Snapshot) error {
	if _, err := snap.Build(); err != nil {
		return errx.Wrap(err)
	}

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		datasets := datasetRepo(tx, schema)
		records := recordRepo(tx, schema)

		if err := datasets.CreateTable(ctx); err != nil {
			return errx.Wrap(err)
		}
		if err := records.CreateTable(ctx); err != nil {
			return errx.Wrap(err)
		}

		names := make([]string, 0, len(snap.Datasets))
		for _, d := range snap.Datasets {
			names = append(names, d.Name)
		}
		exists, err := datasets.Exists(ctx, rowFilter{Names: names})
		if err != nil {
			return errx.Wrap(err)
		}
		if exists {
			return errx.New(
				"catalog already holds one of the snapshot datasets",
				errx.WithCode(CodeAlreadySeeded),
				errx.WithType(errx.T_Conflict),
			)
		}

		dsRows, recRows := toRows(snap)
		if err = datasets.BulkCreate(ctx, dsRows); err != nil {
			return errx.Wrap(err)
		}
		return errx.Wrap(records.BulkCreate(ctx, recRows))
	})
}

func toRows(snap catalog.Snapshot) ([]datasetRow, []recordRow) {
	dsRows := make([]datasetRow, 0, len(snap.Datasets))
	var recRows []recordRow

	for _, d := range snap.Datasets {
		dsRows = append(dsRows, datasetRow{Name: d.Name, Description: d.Description})

		// registry order puts parents before nested records
		for _, sc := range catalog.Schemas() {
			for _, doc := range d.Records[sc.Plural] {
				row := recordRow{
					Dataset:    d.Name,
					Endpoint:   sc.Plural,
					Attributes: make(map[string]any, len(doc)),
				}
				for k, v := range doc {
					switch k {
					case "name":
						row.Name = cast.ToString(v)
					case "parent":
						row.Parent = cast.ToString(v)
					default:
						row.Attributes[k] = v
					}
				}
				recRows = append(recRows, row)
			}
		}
	}

	return dsRows, recRows
}
