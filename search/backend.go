// Package search serves single endpoint searches and lookups over a catalog
// repository. It is also the local data source the query planner fans out to.
package search

import (
	"context"
	"fmt"

	"github.com/code19m/errx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rise-and-shine/catalog/access"
	"github.com/rise-and-shine/catalog/catalog"
	"github.com/rise-and-shine/catalog/filter"
	"github.com/rise-and-shine/catalog/observability/logger"
	"github.com/rise-and-shine/catalog/observability/metrics"
	"github.com/rise-and-shine/catalog/observability/tracing"
	"github.com/rise-and-shine/catalog/pagination"
)

// DatasetsKey is the envelope key of dataset pages.
const DatasetsKey = "datasets"

// Row is one record in wire form.
type Row = map[string]any

// Page is a paginated search response.
type Page = pagination.Page[Row]

// Backend answers searches from an in-memory repository.
type Backend struct {
	repo *catalog.Repository
	cfg  Config
	log  logger.Logger
}

// NewBackend returns a Backend reading from repo.
func NewBackend(repo *catalog.Repository, cfg Config) *Backend {
	return &Backend{
		repo: repo,
		cfg:  cfg,
		log:  logger.Named("search"),
	}
}

// IsSearchable reports whether endpoint names a searchable collection.
func (b *Backend) IsSearchable(endpoint string) bool {
	_, ok := catalog.Lookup(endpoint)
	return ok
}

// Search runs a filtered search against one endpoint of one dataset. The
// caller's tier is checked before any record is read. Filtering runs over
// the whole collection and the page token indexes into the filtered list.
func (b *Backend) Search(ctx context.Context, endpoint string, req *Request, am access.Map) (page *Page, err error) {
	ctx, span := tracing.Start(ctx, "search."+endpoint, attribute.String("dataset.id", req.DatasetID))
	defer func() {
		metrics.SearchRequests.WithLabelValues(endpoint, metrics.Outcome(err)).Inc()
		tracing.End(span, err)
	}()

	sc, err := lookup(endpoint)
	if err != nil {
		return nil, err
	}

	ds, err := b.repo.Dataset(req.DatasetID)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	tier, err := access.Tier(ds.Name(), am)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	filters, err := filter.Validate(req.Filters)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	variant, err := variantFilters(endpoint, req)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	filters = append(variant, filters...)

	builder, err := pagination.NewBuilder[Row](catalog.CanonicalTable(endpoint), req.PageSize, b.cfg.options()...)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	records := ds.List(sc)
	matched := make([]*catalog.Record, 0, len(records))
	for _, r := range records {
		ok, matchErr := filter.Matches(r.At(tier), filters)
		if matchErr != nil {
			return nil, errx.Wrap(matchErr)
		}
		if ok {
			matched = append(matched, r)
		}
	}
	metrics.SearchRowsScanned.WithLabelValues(endpoint).Add(float64(len(records)))

	seq, err := pagination.Paginate(req.PageToken, len(matched), func(i int) Row {
		return matched[i].Wire(tier)
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if err = builder.Fill(seq); err != nil {
		return nil, errx.Wrap(err)
	}

	page = builder.Page()
	b.log.WithContext(ctx).With(
		"endpoint", endpoint,
		"dataset", ds.Name(),
		"matched", len(matched),
		"returned", len(page.Items),
	).Debug("search finished")

	return page, nil
}

// Get returns one record by its external id, converted at the caller's tier
// of the dataset the id belongs to.
func (b *Backend) Get(ctx context.Context, endpoint, id string, am access.Map) (Row, error) {
	sc, err := lookup(endpoint)
	if err != nil {
		return nil, err
	}

	parsed, err := sc.Kind.Parse(id)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	datasetID, _ := parsed.Container(catalog.DatasetIDKey)
	ds, err := b.repo.Dataset(datasetID)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	tier, err := access.Tier(ds.Name(), am)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	r, err := ds.GetByID(sc, id)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	b.log.WithContext(ctx).With("endpoint", endpoint, "dataset", ds.Name()).Debug("get finished")
	return r.Wire(tier), nil
}

// SearchDatasets pages through the datasets present in the access map.
func (b *Backend) SearchDatasets(_ context.Context, req *DatasetsRequest, am access.Map) (*Page, error) {
	visible := make([]Row, 0, len(am))
	for _, ds := range b.repo.Datasets() {
		if _, ok := am[ds.Name()]; ok {
			visible = append(visible, ds.Wire())
		}
	}

	builder, err := pagination.NewBuilder[Row](DatasetsKey, req.PageSize, b.cfg.options()...)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	seq, err := pagination.FromSlice(req.PageToken, visible)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if err = builder.Fill(seq); err != nil {
		return nil, errx.Wrap(err)
	}
	return builder.Page(), nil
}

// GetDataset returns one dataset the caller is authorized for.
func (b *Backend) GetDataset(_ context.Context, id string, am access.Map) (Row, error) {
	ds, err := b.repo.Dataset(id)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if _, err = access.Tier(ds.Name(), am); err != nil {
		return nil, errx.Wrap(err)
	}
	return ds.Wire(), nil
}

func lookup(endpoint string) (*catalog.Schema, error) {
	sc, ok := catalog.Lookup(endpoint)
	if !ok {
		return nil, errx.New(
			fmt.Sprintf("Unknown endpoint %s", endpoint),
			errx.WithCode(CodeUnknownEndpoint),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"endpoint": endpoint}),
		)
	}
	return sc, nil
}
