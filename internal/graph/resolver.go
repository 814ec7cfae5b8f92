// Package graph resolves typed attribute triples from the knowledge graph
// and folds them into nested attribute mappings for config synthesis.
package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/domain"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/observability"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/sparql"
)

// Executor runs a SPARQL SELECT and returns decoded rows. It is satisfied
// by sparql.Client; the aggregator depends only on this so a batching
// strategy can be slotted in behind the same boundary later.
type Executor interface {
	Select(ctx context.Context, query string) ([]sparql.Row, error)
}

// ErrAttributeNotFound marks an attribute URI with neither a value nor a
// label in the graph.
var ErrAttributeNotFound = errors.New("attribute has neither value nor label")

// Per-attribute resolution queries. The unit query is a two-branch union:
// prefer a unit bound directly to the attribute (or its per-axis x/y unit
// for paired data); otherwise fall back to the default unit declared on the
// attribute's type.
const (
	selectAttributeValue = `PREFIX qudt: <http://qudt.org/schema/qudt/>
SELECT ?value WHERE {
    <%s> qudt:value ?value .
}`

	selectAttributeUnit = `PREFIX dici_core: <urn:digicities:core#>
SELECT ?unit WHERE {
    {
        <%[1]s> (dici_core:hasUnit | dici_core:hasUnit/dici_core:xUnit | dici_core:hasUnit/dici_core:yUnit) ?unit .
    } UNION {
        FILTER NOT EXISTS { <%[1]s> dici_core:hasUnit ?any }
        <%[1]s> a ?type .
        ?type (dici_core:hasDefaultUnit | dici_core:hasDefaultUnit/dici_core:xUnit | dici_core:hasDefaultUnit/dici_core:yUnit) ?unit .
    }
}`

	selectAttributeLabel = `PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
SELECT ?label WHERE {
    <%s> rdfs:label ?label .
}`
)

// Resolver resolves single attribute URIs to values, units, and labels.
type Resolver struct {
	exec    Executor
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewResolver creates a Resolver on top of a query executor. Pass nil
// metrics to skip instrumentation.
func NewResolver(exec Executor, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{exec: exec, logger: logger, metrics: metrics}
}

// Resolve fetches the scalar value bound to the attribute URI, then its
// unit; when no value exists it degrades to the human-readable label with
// no unit. An attribute with neither yields ErrAttributeNotFound.
func (r *Resolver) Resolve(ctx context.Context, uri string) (domain.Attribute, error) {
	if err := checkIRI(uri); err != nil {
		return domain.Attribute{}, err
	}

	valueRows, err := r.exec.Select(ctx, fmt.Sprintf(selectAttributeValue, uri))
	if err != nil {
		return domain.Attribute{}, fmt.Errorf("resolve value of <%s>: %w", uri, err)
	}

	if len(valueRows) == 0 {
		return r.resolveLabel(ctx, uri)
	}

	attr := domain.Attribute{Value: valueRows[0][0]}

	unitRows, err := r.exec.Select(ctx, fmt.Sprintf(selectAttributeUnit, uri))
	if err != nil {
		return domain.Attribute{}, fmt.Errorf("resolve unit of <%s>: %w", uri, err)
	}
	if len(unitRows) == 1 {
		attr.Unit = []string{cellString(unitRows[0][0])}
	} else {
		// Ambiguous or missing unit: keep every non-blank-node candidate.
		units := make([]string, 0, len(unitRows))
		for _, row := range unitRows {
			if s := cellString(row[0]); !strings.HasPrefix(s, "_:") {
				units = append(units, s)
			}
		}
		attr.Unit = units
	}

	if r.metrics != nil {
		r.metrics.AttributesResolved.Inc()
	}
	return attr, nil
}

func (r *Resolver) resolveLabel(ctx context.Context, uri string) (domain.Attribute, error) {
	labelRows, err := r.exec.Select(ctx, fmt.Sprintf(selectAttributeLabel, uri))
	if err != nil {
		return domain.Attribute{}, fmt.Errorf("resolve label of <%s>: %w", uri, err)
	}
	if len(labelRows) == 0 {
		return domain.Attribute{}, fmt.Errorf("<%s>: %w", uri, ErrAttributeNotFound)
	}
	if r.metrics != nil {
		r.metrics.AttributesResolved.Inc()
	}
	return domain.Attribute{Value: labelRows[0][0]}, nil
}

// Aggregate resolves every (entity, attribute-name, attribute-URI) row into
// a nested mapping keyed by entity then attribute name. Rows are processed
// strictly in query-result order; repeated (entity, name) pairs overwrite.
// Each row costs two or three round trips to the endpoint, so aggregation
// latency is linear in the attribute count.
func (r *Resolver) Aggregate(ctx context.Context, rows []sparql.Row) (*domain.AttributeMap, error) {
	out := domain.NewAttributeMap()
	for i, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("attribute row %d has %d columns, want 3", i, len(row))
		}
		entity := cellString(row[0])
		name := cellString(row[1])
		uri := cellString(row[2])

		attr, err := r.Resolve(ctx, uri)
		if err != nil {
			return nil, fmt.Errorf("entity %q attribute %q: %w", entity, name, err)
		}
		out.Put(entity, name, attr)
	}
	return out, nil
}

// checkIRI rejects strings that cannot be embedded in an IRI reference,
// closing the query-injection surface for URIs read back from the graph.
func checkIRI(uri string) error {
	if uri == "" || strings.ContainsAny(uri, "<> \t\r\n\"{}|\\^`") {
		return fmt.Errorf("invalid attribute IRI %q", uri)
	}
	return nil
}

func cellString(v domain.Value) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
