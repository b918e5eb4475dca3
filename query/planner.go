// Package query runs advanced queries: it fans out one search per
// component, combines their join keys with a boolean logic tree and draws
// the answer from a results table.
//
// The planner only talks to a Source, so the same code runs against the
// local repository (search.Backend) or a remote catalog (federation.Client).
package query

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/code19m/errx"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rise-and-shine/catalog/access"
	"github.com/rise-and-shine/catalog/catalog"
	"github.com/rise-and-shine/catalog/filter"
	"github.com/rise-and-shine/catalog/observability/logger"
	"github.com/rise-and-shine/catalog/observability/metrics"
	"github.com/rise-and-shine/catalog/observability/tracing"
	"github.com/rise-and-shine/catalog/pagination"
	"github.com/rise-and-shine/catalog/result"
	"github.com/rise-and-shine/catalog/search"
)

const (
	modeSearch = "search"
	modeCount  = "count"
)

// Source is the single endpoint search surface the planner fans out to.
type Source interface {
	IsSearchable(endpoint string) bool
	Search(ctx context.Context, endpoint string, req *search.Request, am access.Map) (*search.Page, error)
	Get(ctx context.Context, endpoint, id string, am access.Map) (search.Row, error)
	GetDataset(ctx context.Context, id string, am access.Map) (search.Row, error)
}

// Planner executes advanced queries against a Source.
type Planner struct {
	src    Source
	noiser result.Noiser
	log    logger.Logger
}

// NewPlanner returns a planner. A nil noiser leaves counts exact.
func NewPlanner(src Source, noiser result.Noiser) *Planner {
	return &Planner{
		src:    src,
		noiser: noiser,
		log:    logger.Named("query.planner"),
	}
}

// Search runs req and returns the rows of the results table, projected to
// the requested fields when any are given.
func (p *Planner) Search(ctx context.Context, req *Request, am access.Map) (_ *search.Page, err error) {
	defer p.observe(time.Now(), modeSearch, &err)

	page, spec, err := p.run(ctx, req, am, false)
	if err != nil {
		return nil, err
	}

	if len(spec.Fields) > 0 {
		page = result.Project(page, spec.Fields)
	}
	return page, nil
}

// Count runs req and returns per-value counts of the requested fields.
func (p *Planner) Count(ctx context.Context, req *Request, am access.Map) (_ *pagination.Page[result.Counts], err error) {
	defer p.observe(time.Now(), modeCount, &err)

	page, spec, err := p.run(ctx, req, am, true)
	if err != nil {
		return nil, err
	}
	return result.Count(page, spec.Fields, p.noiser), nil
}

func (p *Planner) observe(start time.Time, mode string, err *error) {
	metrics.QueryDuration.WithLabelValues(mode, metrics.Outcome(*err)).Observe(time.Since(start).Seconds())
}

func (p *Planner) run(ctx context.Context, req *Request, am access.Map, count bool) (*search.Page, ResultsSpec, error) {
	spec, err := p.validateResults(req.Results, count)
	if err != nil {
		return nil, spec, err
	}

	// authorization comes before any component is searched
	if _, err = p.src.GetDataset(ctx, req.DatasetID, am); err != nil {
		return nil, spec, errx.Wrap(err)
	}

	for _, c := range req.Components {
		if !p.src.IsSearchable(c.Endpoint) {
			return nil, spec, errx.New(
				fmt.Sprintf("Unknown component endpoint %s", c.Endpoint),
				errx.WithCode(CodeBadRequest),
				errx.WithType(errx.T_Validation),
				errx.WithDetails(errx.D{"component_id": c.ID}),
			)
		}
	}

	ex := &execution{
		src:       p.src,
		datasetID: req.DatasetID,
		am:        am,
		owners:    make(map[string]string),
	}

	responses, err := ex.fanOut(ctx, req.Components)
	if err != nil {
		return nil, spec, err
	}

	keys, err := ex.evaluate(ctx, req.Logic, responses)
	if err != nil {
		return nil, spec, err
	}
	metrics.JoinKeys.Observe(float64(len(keys)))

	p.log.WithContext(ctx).With(
		"dataset_id", req.DatasetID,
		"components", len(req.Components),
		"join_keys", len(keys),
		"table", spec.Table,
	).Debug("logic evaluated")

	page, err := ex.materialize(ctx, spec, keys, req.PageToken)
	if err != nil {
		return nil, spec, err
	}
	return page, spec, nil
}

func (p *Planner) validateResults(results []ResultsSpec, count bool) (ResultsSpec, error) {
	if len(results) == 0 {
		return ResultsSpec{}, missingField("results")
	}
	spec := results[0]

	switch {
	case count && len(spec.Fields) == 0:
		return spec, errx.New(
			"Fields list required for count query",
			errx.WithCode(CodeMissingField),
			errx.WithType(errx.T_Validation),
		)
	case spec.Table == "":
		return spec, missingField("table")
	case !p.src.IsSearchable(spec.Table):
		return spec, errx.New(
			"Invalid results table specified",
			errx.WithCode(CodeMissingField),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"table": spec.Table}),
		)
	}

	if spec.IsVariant() {
		if _, err := spec.variantEndpoint(); err != nil {
			return spec, err
		}
	}
	return spec, nil
}

// keySet is a set of join keys.
type keySet map[string]struct{}

// execution holds the per-request state of one query run.
type execution struct {
	src       Source
	datasetID string
	am        access.Map

	// owners caches the patient owning each variant set.
	owners   map[string]string
	universe keySet
}

func (ex *execution) fanOut(ctx context.Context, components []Component) (map[string]keySet, error) {
	ctx, span := tracing.Start(ctx, "query.components", attribute.Int("components", len(components)))
	metrics.QueryComponents.Observe(float64(len(components)))

	responses := make(map[string]keySet, len(components))
	for _, c := range components {
		keys, err := ex.component(ctx, c)
		if err != nil {
			err = errx.Wrap(err, errx.WithDetails(errx.D{"component_id": c.ID}))
			tracing.End(span, err)
			return nil, err
		}
		responses[c.ID] = keys
	}

	tracing.End(span, nil)
	return responses, nil
}

func (ex *execution) component(ctx context.Context, c Component) (keySet, error) {
	ctx, span := tracing.Start(ctx, "query.component",
		attribute.String("component.id", c.ID),
		attribute.String("component.endpoint", c.Endpoint),
	)

	req := c.Search
	req.DatasetID = ex.datasetID
	req.PageToken = ""

	rows, err := ex.collect(ctx, c.Endpoint, &req)
	if err != nil {
		tracing.End(span, err)
		return nil, err
	}

	keys := make(keySet, len(rows))
	for _, row := range rows {
		key, keyErr := ex.joinKey(ctx, row)
		if keyErr != nil {
			tracing.End(span, keyErr)
			return nil, keyErr
		}
		keys[key] = struct{}{}
	}

	span.SetAttributes(attribute.Int("component.rows", len(rows)))
	tracing.End(span, nil)
	return keys, nil
}

// collect follows next page tokens until the endpoint is exhausted.
func (ex *execution) collect(ctx context.Context, endpoint string, req *search.Request) ([]search.Row, error) {
	var rows []search.Row

	for {
		page, err := ex.src.Search(ctx, endpoint, req, ex.am)
		if err != nil {
			return nil, errx.Wrap(err)
		}
		rows = append(rows, page.Items...)

		if page.NextPageToken == "" {
			return rows, nil
		}
		req.PageToken = page.NextPageToken
	}
}

// joinKey returns the patient a row belongs to: its own patientId, or the
// owner of the variant set it references.
func (ex *execution) joinKey(ctx context.Context, row search.Row) (string, error) {
	if v, ok := row[catalog.PatientIDField]; ok && v != nil {
		return cast.ToString(v), nil
	}

	v, ok := row[catalog.VariantSetIDField]
	if !ok || v == nil {
		return "", badRequest("Response row carries no patientId or variantSetId to join on")
	}
	setID := cast.ToString(v)

	if owner, ok := ex.owners[setID]; ok {
		return owner, nil
	}

	set, err := ex.src.Get(ctx, catalog.VariantSetsEndpoint, setID, ex.am)
	if err != nil {
		return "", errx.Wrap(err)
	}

	owner, ok := set[catalog.PatientIDField]
	if !ok || owner == nil {
		return "", badRequest("Variant set has no visible patientId to join on")
	}

	ex.owners[setID] = cast.ToString(owner)
	return ex.owners[setID], nil
}

func (ex *execution) evaluate(ctx context.Context, logic Node, responses map[string]keySet) (keySet, error) {
	ctx, span := tracing.Start(ctx, "query.logic")
	keys, err := ex.eval(ctx, logic, responses)
	tracing.End(span, err)
	return keys, err
}

func (ex *execution) eval(ctx context.Context, node Node, responses map[string]keySet) (keySet, error) {
	switch n := node.(type) {
	case Ref:
		keys, ok := responses[n.ID]
		if !ok {
			return nil, errx.New(
				"Given id does not match a component",
				errx.WithCode(CodeInvalidLogic),
				errx.WithType(errx.T_Validation),
				errx.WithDetails(errx.D{"component_id": n.ID}),
			)
		}
		if !n.Negate {
			return keys, nil
		}

		universe, err := ex.patients(ctx)
		if err != nil {
			return nil, err
		}
		out := make(keySet, len(universe))
		for k := range universe {
			if _, excluded := keys[k]; !excluded {
				out[k] = struct{}{}
			}
		}
		return out, nil

	case And:
		sets, err := ex.evalAll(ctx, n.Children, responses)
		if err != nil {
			return nil, err
		}
		return intersect(sets), nil

	case Or:
		sets, err := ex.evalAll(ctx, n.Children, responses)
		if err != nil {
			return nil, err
		}
		out := make(keySet)
		for _, s := range sets {
			for k := range s {
				out[k] = struct{}{}
			}
		}
		return out, nil

	default:
		return nil, invalidLogic("Invalid key used")
	}
}

func (ex *execution) evalAll(ctx context.Context, nodes []Node, responses map[string]keySet) ([]keySet, error) {
	sets := make([]keySet, 0, len(nodes))
	for _, child := range nodes {
		s, err := ex.eval(ctx, child, responses)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, nil
}

// intersect walks the smallest set and keeps keys present in all others.
// No sets yield the empty set.
func intersect(sets []keySet) keySet {
	out := make(keySet)
	if len(sets) == 0 {
		return out
	}

	slices.SortStableFunc(sets, func(a, b keySet) int { return len(a) - len(b) })

	for k := range sets[0] {
		if lo.EveryBy(sets[1:], func(s keySet) bool {
			_, ok := s[k]
			return ok
		}) {
			out[k] = struct{}{}
		}
	}
	return out
}

// patients returns every patientId of the dataset, scanned once per run.
func (ex *execution) patients(ctx context.Context) (keySet, error) {
	if ex.universe != nil {
		return ex.universe, nil
	}

	rows, err := ex.collect(ctx, catalog.PatientsEndpoint, &search.Request{DatasetID: ex.datasetID})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	universe := make(keySet, len(rows))
	for _, row := range rows {
		if v, ok := row[catalog.PatientIDField]; ok && v != nil {
			universe[cast.ToString(v)] = struct{}{}
		}
	}

	ex.universe = universe
	return universe, nil
}

func (ex *execution) materialize(ctx context.Context, spec ResultsSpec, keys keySet, pageToken string) (*search.Page, error) {
	table := catalog.CanonicalTable(spec.Table)

	ctx, span := tracing.Start(ctx, "query.results",
		attribute.String("results.table", table),
		attribute.Int("results.keys", len(keys)),
	)

	if len(keys) == 0 {
		tracing.End(span, nil)
		return &search.Page{Key: table, Items: []search.Row{}}, nil
	}

	var page *search.Page
	var err error
	if spec.IsVariant() {
		page, err = ex.variants(ctx, spec, keys, pageToken)
	} else {
		page, err = ex.src.Search(ctx, spec.Table, &search.Request{
			DatasetID: ex.datasetID,
			Filters:   []filter.Raw{memberOf(catalog.PatientIDField, keys)},
			PageToken: pageToken,
		}, ex.am)
	}
	tracing.End(span, err)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	page.Key = table
	if page.Items == nil {
		page.Items = []search.Row{}
	}
	return page, nil
}

// variants draws variant rows from the variant sets owned by the join keys.
func (ex *execution) variants(ctx context.Context, spec ResultsSpec, keys keySet, pageToken string) (*search.Page, error) {
	endpoint, err := spec.variantEndpoint()
	if err != nil {
		return nil, err
	}

	sets, err := ex.collect(ctx, catalog.VariantSetsEndpoint, &search.Request{
		DatasetID: ex.datasetID,
		Filters:   []filter.Raw{memberOf(catalog.PatientIDField, keys)},
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	setIDs := make(keySet, len(sets))
	for _, s := range sets {
		setIDs[cast.ToString(s[catalog.IDKey])] = struct{}{}
	}
	if len(setIDs) == 0 {
		return &search.Page{Key: catalog.VariantsEndpoint}, nil
	}

	page, err := ex.src.Search(ctx, endpoint, &search.Request{
		DatasetID:     ex.datasetID,
		Filters:       []filter.Raw{memberOf(catalog.VariantSetIDField, setIDs)},
		PageToken:     pageToken,
		ReferenceName: spec.ReferenceName,
		Start:         spec.Start,
		End:           spec.End,
		Gene:          spec.Gene,
	}, ex.am)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return page, nil
}

func memberOf(field string, keys keySet) filter.Raw {
	sorted := lo.Keys(keys)
	slices.Sort(sorted)
	return filter.Raw{
		Field:    field,
		Operator: string(filter.OpIn),
		Values:   lo.ToAnySlice(sorted),
	}
}
