package graph

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/domain"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/observability"
)

// Domain query catalog: the three canned attribute queries, scoped by
// scenario and global wind atlas site. Scenario and site names are injected
// as escaped string literals, never as raw text.
const (
	selectWindparkAttributes = `PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX dici_core: <urn:digicities:core#>
PREFIX dici_reformers: <urn:digicities:reformers#>
SELECT ?windpark_name ?attr_name ?attr WHERE {
    ?scenario a dici_core:Scenario ;
        rdfs:label %[1]s .
    ?windpark a dici_reformers:GlobalWindAtlasSite ;
        rdfs:label %[2]s ;
        rdfs:label ?windpark_name .
    ?windpark dici_reformers:hasGlobalWindAtlasSiteAttribute ?attr .
    ?attr a ?attr_type .
    ?attr_type rdfs:subClassOf dici_reformers:GlobalWindAtlasSiteAttribute ;
        rdfs:label ?attr_name .
}`

	selectWindTurbineAttributes = `PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX dici_core: <urn:digicities:core#>
PREFIX dici_reformers: <urn:digicities:reformers#>
SELECT ?turbine_name ?attr_name ?attr WHERE {
    ?scenario a dici_core:Scenario ;
        rdfs:label %[1]s .
    ?windpark a dici_reformers:GlobalWindAtlasSite ;
        rdfs:label %[2]s .
    ?turbine a dici_reformers:WindTurbine ;
        rdfs:label ?turbine_name .
    ?turbine dici_reformers:hasWindTurbineAttribute ?attr .
    ?attr a ?attr_type .
    ?attr_type rdfs:subClassOf dici_reformers:WindTurbineAttribute ;
        rdfs:label ?attr_name .
    ?turbine dici_core:usedInScenario ?scenario .
    ?link a dici_core:ComponentLink ;
        dici_core:hasInputEntity ?windpark ;
        dici_core:linksInputyEntityTo ?turbine ;
        dici_core:usedInScenario ?scenario .
}`

	selectWindTurbineTypeAttributes = `PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX dici_core: <urn:digicities:core#>
PREFIX dici_reformers: <urn:digicities:reformers#>
SELECT DISTINCT ?type_name ?type_attr_name ?type_attr WHERE {
    ?scenario a dici_core:Scenario ;
        rdfs:label %[1]s .
    ?windpark a dici_reformers:GlobalWindAtlasSite ;
        rdfs:label %[2]s .
    ?turbine a dici_reformers:WindTurbine .
    ?turbine dici_reformers:hasWindTurbineWindTurbineTypeAttribute ?type .
    ?type dici_reformers:hasWindTurbineTypeAttribute ?type_attr ;
        rdfs:label ?type_name .
    ?type_attr a ?type_attr_class .
    ?type_attr_class rdfs:subClassOf dici_reformers:WindTurbineTypeAttribute ;
        rdfs:label ?type_attr_name .
    ?turbine dici_core:usedInScenario ?scenario .
    ?link a dici_core:ComponentLink ;
        dici_core:hasInputEntity ?windpark ;
        dici_core:linksInputyEntityTo ?turbine ;
        dici_core:usedInScenario ?scenario .
}`
)

// Adapter retrieves wind-park domain data from the knowledge graph: it runs
// a catalog query and aggregates the resulting attribute rows.
type Adapter struct {
	exec     Executor
	resolver *Resolver
	logger   *slog.Logger
}

// NewAdapter creates an Adapter on top of a query executor.
func NewAdapter(exec Executor, logger *slog.Logger, metrics *observability.Metrics) *Adapter {
	return &Adapter{
		exec:     exec,
		resolver: NewResolver(exec, logger, metrics),
		logger:   logger,
	}
}

// WindparkAttributes retrieves all attributes of the named wind park within
// the scenario.
func (a *Adapter) WindparkAttributes(ctx context.Context, scenario, site string) (*domain.AttributeMap, error) {
	return a.retrieve(ctx, fmt.Sprintf(selectWindparkAttributes, literal(scenario), literal(site)))
}

// TurbineAttributes retrieves the attributes of every turbine linked to the
// park through a component link in the scenario.
func (a *Adapter) TurbineAttributes(ctx context.Context, scenario, site string) (*domain.AttributeMap, error) {
	return a.retrieve(ctx, fmt.Sprintf(selectWindTurbineAttributes, literal(scenario), literal(site)))
}

// TurbineTypeAttributes retrieves the attributes of every turbine type used
// by the park's turbines in the scenario, deduplicated across turbines.
func (a *Adapter) TurbineTypeAttributes(ctx context.Context, scenario, site string) (*domain.AttributeMap, error) {
	return a.retrieve(ctx, fmt.Sprintf(selectWindTurbineTypeAttributes, literal(scenario), literal(site)))
}

func (a *Adapter) retrieve(ctx context.Context, query string) (*domain.AttributeMap, error) {
	rows, err := a.exec.Select(ctx, query)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("attribute rows retrieved", "rows", len(rows))
	return a.resolver.Aggregate(ctx, rows)
}

// literal renders s as a quoted SPARQL string literal, escaping the
// characters that would otherwise terminate or alter the literal.
func literal(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return `"` + r.Replace(s) + `"`
}
