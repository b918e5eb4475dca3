// Package usecase exposes the catalog operations as ucdef use cases, shared by
// the HTTP routes and the CLI.
package usecase

import (
	"context"

	"github.com/code19m/errx"

	"github.com/rise-and-shine/catalog/access"
	"github.com/rise-and-shine/catalog/pagination"
	"github.com/rise-and-shine/catalog/query"
	"github.com/rise-and-shine/catalog/result"
	"github.com/rise-and-shine/catalog/search"
	"github.com/rise-and-shine/catalog/ucdef"
)

// DatasetLister pages through the datasets a caller may read.
type DatasetLister interface {
	SearchDatasets(ctx context.Context, req *search.DatasetsRequest, am access.Map) (*search.Page, error)
	GetDataset(ctx context.Context, id string, am access.Map) (search.Row, error)
}

// SearchDatasetsInput is the body of POST /datasets/search.
type SearchDatasetsInput struct {
	search.DatasetsRequest
}

// GetDatasetInput addresses GET /datasets/:id.
type GetDatasetInput struct {
	ID string `json:"id" params:"id" validate:"required"`
}

// SearchEndpointInput is the body of POST /:endpoint/search.
type SearchEndpointInput struct {
	Endpoint string `json:"endpoint" params:"endpoint" validate:"required,identifier"`
	search.Request
}

// GetEntityInput addresses GET /:endpoint/:id.
type GetEntityInput struct {
	Endpoint string `json:"endpoint" params:"endpoint" validate:"required,identifier"`
	ID       string `json:"id"       params:"id"       validate:"required"`
}

var (
	_ ucdef.UserAction[*SearchDatasetsInput, *search.Page]              = (*SearchDatasets)(nil)
	_ ucdef.UserAction[*GetDatasetInput, search.Row]                    = (*GetDataset)(nil)
	_ ucdef.UserAction[*SearchEndpointInput, *search.Page]              = (*SearchEndpoint)(nil)
	_ ucdef.UserAction[*GetEntityInput, search.Row]                     = (*GetEntity)(nil)
	_ ucdef.UserAction[*query.Request, *search.Page]                    = (*AdvancedQuery)(nil)
	_ ucdef.UserAction[*query.Request, *pagination.Page[result.Counts]] = (*CountQuery)(nil)
)

// SearchDatasets lists the datasets in the caller's access map.
type SearchDatasets struct{ src DatasetLister }

// NewSearchDatasets returns the use case.
func NewSearchDatasets(src DatasetLister) *SearchDatasets { return &SearchDatasets{src} }

func (uc *SearchDatasets) OperationID() string { return "search-datasets" }

func (uc *SearchDatasets) Execute(ctx context.Context, in *SearchDatasetsInput) (*search.Page, error) {
	page, err := uc.src.SearchDatasets(ctx, &in.DatasetsRequest, access.FromContext(ctx))
	return page, errx.Wrap(err)
}

// GetDataset returns one authorized dataset.
type GetDataset struct{ src DatasetLister }

// NewGetDataset returns the use case.
func NewGetDataset(src DatasetLister) *GetDataset { return &GetDataset{src} }

func (uc *GetDataset) OperationID() string { return "get-dataset" }

func (uc *GetDataset) Execute(ctx context.Context, in *GetDatasetInput) (search.Row, error) {
	row, err := uc.src.GetDataset(ctx, in.ID, access.FromContext(ctx))
	return row, errx.Wrap(err)
}

// SearchEndpoint runs a filtered search against one endpoint.
type SearchEndpoint struct{ src query.Source }

// NewSearchEndpoint returns the use case.
func NewSearchEndpoint(src query.Source) *SearchEndpoint { return &SearchEndpoint{src} }

func (uc *SearchEndpoint) OperationID() string { return "search-endpoint" }

func (uc *SearchEndpoint) Execute(ctx context.Context, in *SearchEndpointInput) (*search.Page, error) {
	page, err := uc.src.Search(ctx, in.Endpoint, &in.Request, access.FromContext(ctx))
	return page, errx.Wrap(err)
}

// GetEntity returns one record by compound id.
type GetEntity struct{ src query.Source }

// NewGetEntity returns the use case.
func NewGetEntity(src query.Source) *GetEntity { return &GetEntity{src} }

func (uc *GetEntity) OperationID() string { return "get-entity" }

func (uc *GetEntity) Execute(ctx context.Context, in *GetEntityInput) (search.Row, error) {
	row, err := uc.src.Get(ctx, in.Endpoint, in.ID, access.FromContext(ctx))
	return row, errx.Wrap(err)
}

// AdvancedQuery joins component searches and returns the results table.
type AdvancedQuery struct{ planner *query.Planner }

// NewAdvancedQuery returns the use case.
func NewAdvancedQuery(planner *query.Planner) *AdvancedQuery { return &AdvancedQuery{planner} }

func (uc *AdvancedQuery) OperationID() string { return "advanced-query" }

func (uc *AdvancedQuery) Execute(ctx context.Context, in *query.Request) (*search.Page, error) {
	page, err := uc.planner.Search(ctx, in, access.FromContext(ctx))
	return page, errx.Wrap(err)
}

// CountQuery joins component searches and counts values of the results fields.
type CountQuery struct{ planner *query.Planner }

// NewCountQuery returns the use case.
func NewCountQuery(planner *query.Planner) *CountQuery { return &CountQuery{planner} }

func (uc *CountQuery) OperationID() string { return "count-query" }

func (uc *CountQuery) Execute(ctx context.Context, in *query.Request) (*pagination.Page[result.Counts], error) {
	page, err := uc.planner.Count(ctx, in, access.FromContext(ctx))
	return page, errx.Wrap(err)
}
