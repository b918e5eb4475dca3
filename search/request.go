package search

import (
	"encoding/json"

	"github.com/code19m/errx"
	"github.com/samber/lo"

	"github.com/rise-and-shine/catalog/filter"
	"github.com/rise-and-shine/catalog/pagination"
)

// Request is a single endpoint search. The region and gene discriminators
// only apply to the variant endpoints.
type Request struct {
	DatasetID string       `json:"datasetId"`
	Filters   []filter.Raw `json:"filters,omitempty"`
	PageSize  int          `json:"pageSize,omitempty"`
	PageToken string       `json:"pageToken,omitempty"`

	ReferenceName string `json:"referenceName,omitempty"`
	Start         *int64 `json:"start,omitempty"`
	End           *int64 `json:"end,omitempty"`
	Gene          string `json:"gene,omitempty"`
}

// DatasetsRequest pages through the datasets visible to a caller.
type DatasetsRequest struct {
	PageSize  int    `json:"pageSize,omitempty"`
	PageToken string `json:"pageToken,omitempty"`
}

type rawRequest map[string]json.RawMessage

// first returns the value of the first present key among aliases.
func (r rawRequest) first(aliases ...string) (json.RawMessage, bool) {
	for _, k := range aliases {
		if v, ok := r[k]; ok && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

func (r rawRequest) string(dst *string, aliases ...string) error {
	v, ok := r.first(aliases...)
	if !ok {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return badArgument(aliases[0])
	}
	return nil
}

func (r rawRequest) integer(aliases ...string) (*int64, error) {
	v, ok := r.first(aliases...)
	if !ok {
		return nil, nil //nolint:nilnil // argument absent
	}

	var raw any
	if err := json.Unmarshal(v, &raw); err != nil {
		return nil, badArgument(aliases[0])
	}

	n, err := pagination.ParseIntegerArg(aliases[0], raw, 0)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return &n, nil
}

// UnmarshalJSON accepts both camelCase keys and their snake_case aliases.
// Integer arguments may be sent as numeric strings.
func (r *Request) UnmarshalJSON(data []byte) error {
	var raw rawRequest
	if err := json.Unmarshal(data, &raw); err != nil {
		return errx.New(
			"Request body must be a JSON object",
			errx.WithCode(CodeBadRequest),
			errx.WithType(errx.T_Validation),
		)
	}

	var out Request

	for _, s := range []struct {
		dst     *string
		aliases []string
	}{
		{&out.DatasetID, []string{"datasetId", "dataset_id"}},
		{&out.PageToken, []string{"pageToken", "page_token"}},
		{&out.ReferenceName, []string{"referenceName", "reference_name"}},
		{&out.Gene, []string{"gene"}},
	} {
		if err := raw.string(s.dst, s.aliases...); err != nil {
			return err
		}
	}

	if v, ok := raw.first("filters"); ok {
		if err := json.Unmarshal(v, &out.Filters); err != nil {
			return badArgument("filters")
		}
	}

	size, err := raw.integer("pageSize", "page_size")
	if err != nil {
		return err
	}
	out.PageSize = int(lo.FromPtr(size))

	if out.Start, err = raw.integer("start"); err != nil {
		return err
	}
	if out.End, err = raw.integer("end"); err != nil {
		return err
	}

	*r = out
	return nil
}

// UnmarshalJSON accepts both camelCase keys and their snake_case aliases.
func (r *DatasetsRequest) UnmarshalJSON(data []byte) error {
	var raw rawRequest
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return badArgument("body")
		}
	}

	var out DatasetsRequest
	if err := raw.string(&out.PageToken, "pageToken", "page_token"); err != nil {
		return err
	}

	size, err := raw.integer("pageSize", "page_size")
	if err != nil {
		return err
	}
	out.PageSize = int(lo.FromPtr(size))

	*r = out
	return nil
}

func badArgument(name string) error {
	return errx.New(
		"Malformed argument "+name,
		errx.WithCode(CodeBadRequest),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(errx.D{"argument": name}),
	)
}
