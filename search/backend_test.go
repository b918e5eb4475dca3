package search_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/code19m/errx"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/catalog/access"
	"github.com/rise-and-shine/catalog/catalog"
	"github.com/rise-and-shine/catalog/catalog/catalogtest"
	"github.com/rise-and-shine/catalog/filter"
	"github.com/rise-and-shine/catalog/pagination"
	"github.com/rise-and-shine/catalog/search"
)

type fixture struct {
	backend *search.Backend
	repo    *catalog.Repository
	mock1   string
	mock2   string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	repo := catalogtest.Repository()
	m1, err := repo.DatasetByName("mock1")
	require.NoError(t, err)
	m2, err := repo.DatasetByName("mock2")
	require.NoError(t, err)

	return fixture{
		backend: search.NewBackend(repo, search.Config{DefaultPageSize: 1800, MaxResponseLength: 1 << 20}),
		repo:    repo,
		mock1:   m1.ID(),
		mock2:   m2.ID(),
	}
}

func names(page *search.Page) []string {
	return lo.Map(page.Items, func(r search.Row, _ int) string {
		return r[catalog.NameKey].(string) //nolint:errcheck // fixture rows always carry a name
	})
}

func TestSearchFilters(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		filters []filter.Raw
		want    []string
	}{
		{name: "no filters", want: []string{"PATIENT_1", "PATIENT_2", "PATIENT_3"}},
		{
			name:    "eq",
			filters: []filter.Raw{{Field: "gender", Operator: "eq", Value: "Male"}},
			want:    []string{"PATIENT_1", "PATIENT_3"},
		},
		{
			name: "conjunction",
			filters: []filter.Raw{
				{Field: "gender", Operator: "eq", Value: "Male"},
				{Field: "ethnicity", Operator: "==", Value: "Asian"},
			},
			want: []string{"PATIENT_3"},
		},
		{
			name:    "in",
			filters: []filter.Raw{{Field: "provinceOfResidence", Operator: "in", Values: []any{"Quebec", "Yukon"}}},
			want:    []string{"PATIENT_2"},
		},
		{
			name:    "list contains",
			filters: []filter.Raw{{Field: "comorbidities", Operator: "contains", Value: "asthma"}},
			want:    []string{"PATIENT_1", "PATIENT_2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.backend.Search(context.Background(), catalog.PatientsEndpoint, &search.Request{
				DatasetID: f.mock1,
				Filters:   tt.filters,
			}, catalogtest.FullAccess())
			require.NoError(t, err)

			assert.Equal(t, catalog.PatientsEndpoint, page.Key)
			assert.Equal(t, tt.want, names(page))
			assert.Empty(t, page.NextPageToken)
		})
	}
}

func TestSearchPaginatesFilteredList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := &search.Request{
		DatasetID: f.mock1,
		PageSize:  1,
		Filters:   []filter.Raw{{Field: "gender", Operator: "eq", Value: "Male"}},
	}

	first, err := f.backend.Search(ctx, catalog.PatientsEndpoint, req, catalogtest.FullAccess())
	require.NoError(t, err)
	assert.Equal(t, []string{"PATIENT_1"}, names(first))
	assert.Equal(t, "1", first.NextPageToken)

	req.PageToken = first.NextPageToken
	second, err := f.backend.Search(ctx, catalog.PatientsEndpoint, req, catalogtest.FullAccess())
	require.NoError(t, err)
	assert.Equal(t, []string{"PATIENT_3"}, names(second))
	assert.Empty(t, second.NextPageToken)
}

func TestSearchAppliesTier(t *testing.T) {
	f := newFixture(t)

	page, err := f.backend.Search(context.Background(), catalog.PatientsEndpoint,
		&search.Request{DatasetID: f.mock1}, access.Map{"mock1": 0})
	require.NoError(t, err)

	for _, row := range page.Items {
		assert.NotContains(t, row, "dateOfBirth")
		assert.Contains(t, row, "gender")
	}
}

func TestSearchFiltersOnReadableAttributesOnly(t *testing.T) {
	f := newFixture(t)
	byDate := &search.Request{
		DatasetID: f.mock1,
		Filters:   []filter.Raw{{Field: "dateOfBirth", Operator: "gt", Value: "1970-01-01"}},
	}

	page, err := f.backend.Search(context.Background(), catalog.PatientsEndpoint, byDate, access.Map{"mock1": 0})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = f.backend.Search(context.Background(), catalog.PatientsEndpoint, byDate, access.Map{"mock1": 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"PATIENT_2", "PATIENT_3"}, names(page))
}

func TestSearchErrors(t *testing.T) {
	f := newFixture(t)
	malformed := []filter.Raw{{Field: "gender"}}

	tests := []struct {
		name     string
		endpoint string
		req      search.Request
		am       access.Map
		code     string
	}{
		{
			name:     "unauthorized before filter validation",
			endpoint: catalog.PatientsEndpoint,
			req:      search.Request{DatasetID: f.mock1, Filters: malformed},
			am:       access.Map{"mock2": 4},
			code:     access.CodeNotAuthorized,
		},
		{
			name:     "malformed filter",
			endpoint: catalog.PatientsEndpoint,
			req:      search.Request{DatasetID: f.mock1, Filters: malformed},
			am:       catalogtest.FullAccess(),
			code:     filter.CodeBadRequest,
		},
		{
			name:     "unknown field",
			endpoint: catalog.PatientsEndpoint,
			req: search.Request{DatasetID: f.mock1, Filters: []filter.Raw{
				{Field: "gendr", Operator: "eq", Value: "Male"},
			}},
			am:   catalogtest.FullAccess(),
			code: filter.CodeFieldNameSuggestion,
		},
		{
			name:     "dangling dataset",
			endpoint: catalog.PatientsEndpoint,
			req:      search.Request{DatasetID: catalog.DatasetKind.Root("gone").String()},
			am:       catalogtest.FullAccess(),
			code:     catalog.CodeObjectNotFound,
		},
		{
			name:     "malformed dataset",
			endpoint: catalog.PatientsEndpoint,
			req:      search.Request{DatasetID: "%%%"},
			am:       catalogtest.FullAccess(),
			code:     catalog.CodeObjectNotFound,
		},
		{
			name:     "unknown endpoint",
			endpoint: "widgets",
			req:      search.Request{DatasetID: f.mock1},
			am:       catalogtest.FullAccess(),
			code:     search.CodeUnknownEndpoint,
		},
		{
			name:     "negative page size",
			endpoint: catalog.PatientsEndpoint,
			req:      search.Request{DatasetID: f.mock1, PageSize: -1},
			am:       catalogtest.FullAccess(),
			code:     pagination.CodeBadPageSize,
		},
		{
			name:     "bad page token",
			endpoint: catalog.PatientsEndpoint,
			req:      search.Request{DatasetID: f.mock1, PageToken: "x"},
			am:       catalogtest.FullAccess(),
			code:     pagination.CodeBadPageToken,
		},
		{
			name:     "gene search without gene",
			endpoint: catalog.VariantsByGeneEndpoint,
			req:      search.Request{DatasetID: f.mock1},
			am:       catalogtest.FullAccess(),
			code:     search.CodeBadRequest,
		},
		{
			name:     "half open region",
			endpoint: catalog.VariantsEndpoint,
			req:      search.Request{DatasetID: f.mock1, Start: lo.ToPtr[int64](1)},
			am:       catalogtest.FullAccess(),
			code:     search.CodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.backend.Search(context.Background(), tt.endpoint, &tt.req, tt.am)
			require.Error(t, err)
			assert.True(t, errx.IsCodeIn(err, tt.code), err.Error())
		})
	}
}

func TestSearchVariants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	region, err := f.backend.Search(ctx, catalog.VariantsEndpoint, &search.Request{
		DatasetID:     f.mock1,
		ReferenceName: "1",
		Start:         lo.ToPtr[int64](120),
		End:           lo.ToPtr[int64](160),
	}, catalogtest.FullAccess())
	require.NoError(t, err)
	assert.Equal(t, []string{"V_1", "V_3"}, names(region))

	byGene, err := f.backend.Search(ctx, catalog.VariantsByGeneEndpoint, &search.Request{
		DatasetID: f.mock1,
		Gene:      "BRCA1",
	}, catalogtest.FullAccess())
	require.NoError(t, err)
	assert.Equal(t, catalog.VariantsEndpoint, byGene.Key)
	assert.Equal(t, []string{"V_1", "V_3"}, names(byGene))

	for _, row := range byGene.Items {
		assert.NotEmpty(t, row[catalog.VariantSetIDField])
	}
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	page, err := f.backend.Search(ctx, catalog.PatientsEndpoint,
		&search.Request{DatasetID: f.mock1}, catalogtest.FullAccess())
	require.NoError(t, err)
	id := page.Items[0][catalog.IDKey].(string) //nolint:errcheck // wire ids are strings

	row, err := f.backend.Get(ctx, catalog.PatientsEndpoint, id, catalogtest.FullAccess())
	require.NoError(t, err)
	assert.Equal(t, "PATIENT_1", row[catalog.NameKey])
	assert.Equal(t, "1960-01-01", row["dateOfBirth"])

	_, err = f.backend.Get(ctx, catalog.PatientsEndpoint, id, access.Map{"mock2": 4})
	assert.True(t, errx.IsCodeIn(err, access.CodeNotAuthorized))

	_, err = f.backend.Get(ctx, "samples", id, catalogtest.FullAccess())
	assert.True(t, errx.IsCodeIn(err, catalog.CodeObjectNotFound))

	_, err = f.backend.Get(ctx, catalog.PatientsEndpoint, "nope", catalogtest.FullAccess())
	assert.True(t, errx.IsCodeIn(err, catalog.CodeObjectNotFound))
}

func TestDatasets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	page, err := f.backend.SearchDatasets(ctx, &search.DatasetsRequest{}, access.Map{"mock2": 0})
	require.NoError(t, err)
	assert.Equal(t, search.DatasetsKey, page.Key)
	assert.Equal(t, []string{"mock2"}, names(page))

	row, err := f.backend.GetDataset(ctx, f.mock1, catalogtest.FullAccess())
	require.NoError(t, err)
	assert.Equal(t, "mock1", row[catalog.NameKey])

	_, err = f.backend.GetDataset(ctx, f.mock1, access.Map{"mock2": 0})
	assert.True(t, errx.IsCodeIn(err, access.CodeNotAuthorized))
}

func TestIsSearchable(t *testing.T) {
	f := newFixture(t)
	for _, ep := range catalog.Endpoints() {
		assert.True(t, f.backend.IsSearchable(ep), ep)
	}
	assert.False(t, f.backend.IsSearchable("widgets"))
}

func TestRequestAliases(t *testing.T) {
	tests := []struct {
		name string
		body string
		want search.Request
	}{
		{
			name: "camel case",
			body: `{"datasetId":"d","pageSize":5,"pageToken":"3","filters":[{"field":"a","operator":"eq","value":1}]}`,
			want: search.Request{
				DatasetID: "d", PageSize: 5, PageToken: "3",
				Filters: []filter.Raw{{Field: "a", Operator: "eq", Value: float64(1)}},
			},
		},
		{
			name: "snake case with string integers",
			body: `{"dataset_id":"d","page_size":"7","page_token":"2","reference_name":"1","start":"10","end":20}`,
			want: search.Request{
				DatasetID: "d", PageSize: 7, PageToken: "2", ReferenceName: "1",
				Start: lo.ToPtr[int64](10), End: lo.ToPtr[int64](20),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got search.Request
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad search.Request
	err := json.Unmarshal([]byte(`{"datasetId":"d","pageSize":"many"}`), &bad)
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, pagination.CodeBadRequest))
}
