package query

import (
	"encoding/json"
	"fmt"

	"github.com/code19m/errx"
	"github.com/samber/lo"

	"github.com/rise-and-shine/catalog/catalog"
	"github.com/rise-and-shine/catalog/pagination"
	"github.com/rise-and-shine/catalog/search"
)

// Request is an advanced query: components searched independently, a logic
// tree combining their join keys, and the table the answer is drawn from.
type Request struct {
	DatasetID  string
	Logic      Node
	Components []Component
	Results    []ResultsSpec
	PageToken  string
}

// Component is one named single endpoint search. Its body carries the
// filters and, for variant endpoints, the region or gene.
type Component struct {
	ID       string
	Endpoint string
	Search   search.Request
}

// ResultsSpec names the table of the final answer.
type ResultsSpec struct {
	Table  string   `json:"table"`
	Fields []string `json:"fields,omitempty"`

	Gene          string `json:"gene,omitempty"`
	Start         *int64 `json:"start,omitempty"`
	End           *int64 `json:"end,omitempty"`
	ReferenceName string `json:"referenceName,omitempty"`
}

// IsVariant reports whether the table is served by the variant join path.
func (r ResultsSpec) IsVariant() bool {
	return catalog.CanonicalTable(r.Table) == catalog.VariantsEndpoint
}

// variantEndpoint picks the backing search: by gene when a gene is given,
// by region otherwise. A gene excludes any region key and a region needs
// all three keys.
func (r ResultsSpec) variantEndpoint() (string, error) {
	hasRegion := r.Start != nil || r.End != nil || r.ReferenceName != ""

	if r.Gene != "" {
		if hasRegion {
			return "", missingVariantKeys()
		}
		return catalog.VariantsByGeneEndpoint, nil
	}
	if r.Start == nil || r.End == nil || r.ReferenceName == "" {
		return "", missingVariantKeys()
	}
	return catalog.VariantsEndpoint, nil
}

// Parse decodes an advanced query body.
func Parse(data []byte) (*Request, error) {
	var r Request
	if err := r.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return &r, nil
}

// UnmarshalJSON decodes the request. Every required key missing is a
// MISSING_FIELD error naming the key; snake_case aliases are accepted for
// datasetId and pageToken.
func (r *Request) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return badRequest("Request body must be a JSON object")
	}

	var out Request

	rawDataset, ok := first(raw, "datasetId", "dataset_id")
	if !ok {
		return missingField("datasetId")
	}
	if err := json.Unmarshal(rawDataset, &out.DatasetID); err != nil {
		return badRequest("datasetId must be a string")
	}

	rawLogic, ok := first(raw, "logic")
	if !ok {
		return missingField("logic")
	}
	logic, err := ParseLogic(rawLogic)
	if err != nil {
		return err
	}
	out.Logic = logic

	rawComponents, ok := first(raw, "components")
	if !ok {
		return missingField("components")
	}
	if out.Components, err = parseComponents(rawComponents); err != nil {
		return err
	}

	rawResults, ok := first(raw, "results")
	if !ok {
		return missingField("results")
	}
	if out.Results, err = parseResults(rawResults); err != nil {
		return err
	}

	if rawToken, ok := first(raw, "pageToken", "page_token"); ok {
		if err = json.Unmarshal(rawToken, &out.PageToken); err != nil {
			return badRequest("pageToken must be a string")
		}
	}

	*r = out
	return nil
}

func parseComponents(data json.RawMessage) ([]Component, error) {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, badRequest("components must be a list of objects")
	}

	seen := make(map[string]struct{}, len(items))
	components := make([]Component, 0, len(items))

	for i, item := range items {
		rawID, hasID := item["id"]
		if len(item) != 2 || !hasID {
			return nil, errx.New(
				"Missing or invalid component fields",
				errx.WithCode(CodeMissingField),
				errx.WithType(errx.T_Validation),
				errx.WithDetails(errx.D{"component_index": i}),
			)
		}

		var c Component
		if err := json.Unmarshal(rawID, &c.ID); err != nil || c.ID == "" {
			return nil, badRequest("Component id must be a non-empty string")
		}
		if _, dup := seen[c.ID]; dup {
			return nil, badRequest(fmt.Sprintf("Duplicate component id %s", c.ID))
		}
		seen[c.ID] = struct{}{}

		for key, body := range item {
			if key == "id" {
				continue
			}
			c.Endpoint = key
			if err := json.Unmarshal(body, &c.Search); err != nil {
				return nil, errx.Wrap(err, errx.WithDetails(errx.D{"component_id": c.ID}))
			}
		}

		components = append(components, c)
	}

	return components, nil
}

func parseResults(data json.RawMessage) ([]ResultsSpec, error) {
	var items []map[string]any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, badRequest("results must be a list of objects")
	}

	specs := make([]ResultsSpec, 0, len(items))
	for _, item := range items {
		var spec ResultsSpec
		var err error

		spec.Table, _ = item["table"].(string)
		spec.Gene, _ = item["gene"].(string)
		spec.ReferenceName, _ = item["referenceName"].(string)

		if rawFields, ok := item["fields"].([]any); ok {
			spec.Fields = lo.FilterMap(rawFields, func(v any, _ int) (string, bool) {
				s, ok := v.(string)
				return s, ok
			})
		}

		if spec.Start, err = optionalInt("start", item["start"]); err != nil {
			return nil, err
		}
		if spec.End, err = optionalInt("end", item["end"]); err != nil {
			return nil, err
		}

		specs = append(specs, spec)
	}
	return specs, nil
}

func optionalInt(name string, raw any) (*int64, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // argument absent
	}
	v, err := pagination.ParseIntegerArg(name, raw, 0)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return &v, nil
}

func first(raw map[string]json.RawMessage, aliases ...string) (json.RawMessage, bool) {
	for _, k := range aliases {
		if v, ok := raw[k]; ok && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

func missingField(name string) error {
	return errx.New(
		name,
		errx.WithCode(CodeMissingField),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(errx.D{"field": name}),
	)
}

func missingVariantKeys() error {
	return errx.New(
		"Variant results need either a gene, or referenceName with start and end",
		errx.WithCode(CodeMissingResultVariantKeys),
		errx.WithType(errx.T_Validation),
	)
}

func badRequest(msg string) error {
	return errx.New(msg, errx.WithCode(CodeBadRequest), errx.WithType(errx.T_Validation))
}
