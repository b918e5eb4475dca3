package query_test

import (
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/catalog/query"
)

func TestParseLogic(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want query.Node
	}{
		{name: "ref", in: `{"id":"a"}`, want: query.Ref{ID: "a"}},
		{name: "negated ref", in: `{"id":"a","negate":true}`, want: query.Ref{ID: "a", Negate: true}},
		{name: "negate false", in: `{"id":"a","negate":false}`, want: query.Ref{ID: "a"}},
		{name: "empty and", in: `{"and":[]}`, want: query.And{Children: []query.Node{}}},
		{
			name: "nested",
			in:   `{"or":[{"id":"a"},{"and":[{"id":"b"},{"id":"c","negate":true}]}]}`,
			want: query.Or{Children: []query.Node{
				query.Ref{ID: "a"},
				query.And{Children: []query.Node{query.Ref{ID: "b"}, query.Ref{ID: "c", Negate: true}}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := query.ParseLogic([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLogicRejectsOtherShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "not an object", in: `["a"]`},
		{name: "empty object", in: `{}`},
		{name: "unknown key", in: `{"xor":[]}`},
		{name: "and with id", in: `{"and":[],"id":"a"}`},
		{name: "negate alone", in: `{"negate":true,"or":[]}`},
		{name: "three keys", in: `{"id":"a","negate":true,"and":[]}`},
		{name: "operands not a list", in: `{"and":{"id":"a"}}`},
		{name: "bad child", in: `{"or":[{"id":"a"},{"nope":1}]}`},
		{name: "empty id", in: `{"id":""}`},
		{name: "non boolean negate", in: `{"id":"a","negate":"maybe"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := query.ParseLogic([]byte(tt.in))
			require.Error(t, err)
			assert.True(t, errx.IsCodeIn(err, query.CodeInvalidLogic), err.Error())
		})
	}
}

func TestParseRequest(t *testing.T) {
	body := `{
		"dataset_id": "ds",
		"logic": {"id": "a"},
		"components": [{"id": "a", "patients": {"filters": [{"field": "gender", "operator": "eq", "value": "Male"}]}}],
		"results": [{"table": "variants", "fields": ["gene"], "referenceName": "1", "start": "10", "end": 20}],
		"page_token": "3"
	}`

	req, err := query.Parse([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "ds", req.DatasetID)
	assert.Equal(t, "3", req.PageToken)
	assert.Equal(t, query.Ref{ID: "a"}, req.Logic)

	require.Len(t, req.Components, 1)
	assert.Equal(t, "patients", req.Components[0].Endpoint)
	require.Len(t, req.Components[0].Search.Filters, 1)
	assert.Equal(t, "gender", req.Components[0].Search.Filters[0].Field)

	require.Len(t, req.Results, 1)
	spec := req.Results[0]
	assert.Equal(t, "variants", spec.Table)
	assert.Equal(t, []string{"gene"}, spec.Fields)
	assert.Equal(t, int64(10), *spec.Start)
	assert.Equal(t, int64(20), *spec.End)
	assert.True(t, spec.IsVariant())
}

func TestParseRequestErrors(t *testing.T) {
	const (
		logic      = `"logic":{"id":"a"}`
		components = `"components":[{"id":"a","patients":{}}]`
		results    = `"results":[{"table":"patients"}]`
	)

	tests := []struct {
		name string
		body string
		code string
		msg  string
	}{
		{name: "not json", body: `{`, code: query.CodeBadRequest},
		{name: "no dataset", body: `{` + logic + `,` + components + `,` + results + `}`, code: query.CodeMissingField, msg: "datasetId"},
		{name: "no logic", body: `{"datasetId":"d",` + components + `,` + results + `}`, code: query.CodeMissingField, msg: "logic"},
		{name: "no components", body: `{"datasetId":"d",` + logic + `,` + results + `}`, code: query.CodeMissingField, msg: "components"},
		{name: "no results", body: `{"datasetId":"d",` + logic + `,` + components + `}`, code: query.CodeMissingField, msg: "results"},
		{
			name: "component with extra key",
			body: `{"datasetId":"d",` + logic + `,"components":[{"id":"a","patients":{},"samples":{}}],` + results + `}`,
			code: query.CodeMissingField,
		},
		{
			name: "component without id",
			body: `{"datasetId":"d",` + logic + `,"components":[{"key":"a","patients":{}}],` + results + `}`,
			code: query.CodeMissingField,
		},
		{
			name: "duplicate component",
			body: `{"datasetId":"d",` + logic + `,"components":[{"id":"a","patients":{}},{"id":"a","samples":{}}],` + results + `}`,
			code: query.CodeBadRequest,
		},
		{
			name: "malformed logic",
			body: `{"datasetId":"d","logic":{"nand":[]},` + components + `,` + results + `}`,
			code: query.CodeInvalidLogic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := query.Parse([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, errx.IsCodeIn(err, tt.code), err.Error())
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}
