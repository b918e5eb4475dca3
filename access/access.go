// Package access gates catalog reads by dataset tier.
//
// Callers present an access map from dataset local names to integer tiers.
// A dataset absent from the map is not readable at all; within a readable
// dataset each attribute carries its own minimum tier.
package access

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/code19m/errx"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

const (
	// CodeNotAuthorized is returned when the access map lacks a dataset.
	CodeNotAuthorized = "NOT_AUTHORIZED"
	// CodeBadAccessMap is returned when a presented access map cannot be read.
	CodeBadAccessMap = "BAD_ACCESS_MAP"
)

// TierSuffix marks attribute keys that hold the minimum tier of a sibling.
const TierSuffix = "Tier"

// Map associates dataset local names with the caller's access tier.
type Map map[string]int

// Tier returns the caller's tier for the named dataset.
func Tier(datasetName string, m Map) (int, error) {
	tier, ok := m[datasetName]
	if !ok {
		return 0, errx.New(
			"Not authorized to access this dataset",
			errx.WithCode(CodeNotAuthorized),
			errx.WithType(errx.T_Forbidden),
			errx.WithDetails(errx.D{"dataset": datasetName}),
		)
	}
	return tier, nil
}

// Datasets returns the dataset names present in m, sorted.
func (m Map) Datasets() []string {
	names := lo.Keys(m)
	slices.Sort(names)
	return names
}

// FromClaim converts a decoded token claim such as {"mock1": 4} into a Map.
// Tier values may arrive as JSON numbers or numeric strings.
func FromClaim(claim any) (Map, error) {
	raw, err := cast.ToStringMapE(claim)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithCode(CodeBadAccessMap), errx.WithType(errx.T_Authentication))
	}

	m := make(Map, len(raw))
	for name, v := range raw {
		tier, err := cast.ToIntE(v)
		if err != nil {
			return nil, errx.New(
				fmt.Sprintf("access tier for dataset %s is not an integer", name),
				errx.WithCode(CodeBadAccessMap),
				errx.WithType(errx.T_Authentication),
			)
		}
		m[name] = tier
	}
	return m, nil
}

// Visible reports whether an attribute annotated with required is readable at
// tier. A missing annotation hides the attribute.
func Visible(tier int, required int, annotated bool) bool {
	return annotated && tier >= required
}

// IsTierKey reports whether key is a tier annotation rather than an attribute.
func IsTierKey(key string) bool {
	return strings.HasSuffix(key, TierSuffix) && len(key) > len(TierSuffix)
}

// TierKey returns the annotation key for attribute.
func TierKey(attribute string) string {
	return attribute + TierSuffix
}

type ctxKey struct{}

// WithMap stores m in ctx.
func WithMap(ctx context.Context, m Map) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

// FromContext returns the access map stored in ctx, or an empty map.
func FromContext(ctx context.Context) Map {
	if m, ok := ctx.Value(ctxKey{}).(Map); ok {
		return m
	}
	return Map{}
}
