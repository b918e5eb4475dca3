package catalog

import (
	"fmt"

	"github.com/code19m/errx"
)

// Repository is the read-only set of datasets served by one instance.
type Repository struct {
	datasets []*Dataset
	byID     map[string]*Dataset
	byName   map[string]*Dataset
}

// NewRepository indexes datasets. Dataset names must be unique.
func NewRepository(datasets ...*Dataset) (*Repository, error) {
	r := &Repository{
		datasets: datasets,
		byID:     make(map[string]*Dataset, len(datasets)),
		byName:   make(map[string]*Dataset, len(datasets)),
	}

	for _, ds := range datasets {
		if _, dup := r.byName[ds.name]; dup {
			return nil, badSnapshot("datasets", ds.name, "duplicate dataset")
		}
		r.byID[ds.idStr] = ds
		r.byName[ds.name] = ds
	}

	return r, nil
}

// Datasets returns every dataset in load order.
func (r *Repository) Datasets() []*Dataset {
	return r.datasets
}

// Dataset resolves an external dataset id.
func (r *Repository) Dataset(id string) (*Dataset, error) {
	if _, err := DatasetKind.Parse(id); err != nil {
		return nil, errx.Wrap(err)
	}

	ds, ok := r.byID[id]
	if !ok {
		return nil, notFound("datasets", id)
	}
	return ds, nil
}

// DatasetByName resolves a dataset by its local name.
func (r *Repository) DatasetByName(name string) (*Dataset, error) {
	ds, ok := r.byName[name]
	if !ok {
		return nil, errx.New(
			fmt.Sprintf("No dataset named '%s'", name),
			errx.WithCode(CodeObjectNotFound),
			errx.WithType(errx.T_NotFound),
		)
	}
	return ds, nil
}
