package search

import (
	"github.com/code19m/errx"

	"github.com/rise-and-shine/catalog/catalog"
	"github.com/rise-and-shine/catalog/filter"
)

// variantFilters turns the region and gene discriminators of a variant
// search into filters. A region matches every variant overlapping
// [start, end): variant.start < end and variant.end > start.
func variantFilters(endpoint string, req *Request) ([]filter.Filter, error) {
	switch endpoint {
	case catalog.VariantsByGeneEndpoint:
		if req.Gene == "" {
			return nil, badVariantSearch("A gene is required to search variants by gene")
		}
		return []filter.Filter{geneFilter(req.Gene)}, nil

	case catalog.VariantsEndpoint:
		var filters []filter.Filter

		if req.Start != nil || req.End != nil {
			if req.Start == nil || req.End == nil {
				return nil, badVariantSearch("Both start and end are required for a region search")
			}
			if *req.Start > *req.End {
				return nil, badVariantSearch("Region start must not exceed end")
			}
			filters = append(filters,
				filter.Filter{Field: "start", Operator: filter.OpLT, Value: *req.End},
				filter.Filter{Field: "end", Operator: filter.OpGT, Value: *req.Start},
			)
		}
		if req.ReferenceName != "" {
			filters = append(filters, filter.Filter{
				Field: "referenceName", Operator: filter.OpEQ, Value: req.ReferenceName,
			})
		}
		if req.Gene != "" {
			filters = append(filters, geneFilter(req.Gene))
		}
		return filters, nil

	default:
		return nil, nil
	}
}

func geneFilter(gene string) filter.Filter {
	return filter.Filter{Field: "gene", Operator: filter.OpEQ, Value: gene}
}

func badVariantSearch(msg string) error {
	return errx.New(msg, errx.WithCode(CodeBadRequest), errx.WithType(errx.T_Validation))
}
