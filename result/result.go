// Package result shapes the final rows of an advanced query: field
// projection for searches and per-value bucket counts for count queries.
package result

import (
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cast"

	"github.com/rise-and-shine/catalog/pagination"
)

// Row is one response object.
type Row = map[string]any

// Counts maps a field name to the number of rows per distinct value.
type Counts map[string]map[string]int

// Project keeps only the listed fields of every row. Rows left empty are
// dropped; the continuation token is kept.
func Project(page *pagination.Page[Row], fields []string) *pagination.Page[Row] {
	rows := make([]Row, 0, len(page.Items))
	for _, row := range page.Items {
		projected := lo.PickByKeys(row, fields)
		if len(projected) > 0 {
			rows = append(rows, projected)
		}
	}

	return &pagination.Page[Row]{
		Key:           page.Key,
		Items:         rows,
		NextPageToken: page.NextPageToken,
	}
}

// Aggregate counts rows per value of every listed field. List values are
// sorted and comma joined, so orderings of one list share a bucket.
func Aggregate(rows []Row, fields []string) Counts {
	counts := make(Counts)

	for _, row := range rows {
		for _, field := range fields {
			v, ok := row[field]
			if !ok || v == nil {
				continue
			}

			buckets, ok := counts[field]
			if !ok {
				buckets = make(map[string]int)
				counts[field] = buckets
			}
			buckets[bucketKey(v)]++
		}
	}

	return counts
}

// Count aggregates a page into the count response envelope. With a noiser
// the counts are perturbed before they are wrapped. A page with nothing to
// count yields an empty list under the table key.
func Count(page *pagination.Page[Row], fields []string, noiser Noiser) *pagination.Page[Counts] {
	out := &pagination.Page[Counts]{
		Key:           page.Key,
		Items:         []Counts{},
		NextPageToken: page.NextPageToken,
	}

	counts := Aggregate(page.Items, fields)
	if len(counts) == 0 {
		return out
	}

	if noiser != nil {
		noiser.Noise(counts)
	}
	out.Items = append(out.Items, counts)
	return out
}

func bucketKey(v any) string {
	switch v.(type) {
	case []string, []any:
		items := cast.ToStringSlice(v)
		slices.Sort(items)
		return strings.Join(items, ",")
	default:
		return cast.ToString(v)
	}
}
