// Package domain models the wind-park forecasting domain: attributes
// resolved from the knowledge graph, the synthesized park and turbine-type
// configurations, and the forecast datasets flowing through the pipeline.
//
// # Knowledge-Graph Conventions
//
// Park topology and turbine characteristics live in a GraphDB repository
// using the digicities ontologies (urn:digicities:core#,
// urn:digicities:reformers#). Every characteristic is modelled as an
// attribute node: the entity (site, turbine, turbine type) links to the
// attribute, the attribute's class carries the human-readable name, and the
// attribute itself carries a qudt:value plus unit links. Scalar values are
// xsd:decimal literals; curves are Json-typed literals holding [x, y]
// sample pairs, with per-axis units (xUnit/yUnit) on the unit node.
//
// # Unit Conventions
//
// Units are QUDT unit IRIs; only the last path segment is meaningful for
// conversion. Power curves are normalized to kilowatts (MegaW ÷ 1e6, bare
// watts ÷ 1e3, as the published vocabulary is spelled), lengths to meters
// (CentiM ÷ 100). Everything else passes through unconverted.
//
// # Naming Conventions
//
// Turbine names follow "<park> <n>" ("Alkmaar 7"); the trailing number
// orders the turbines in the park artifact. Names without a numeric tail
// get sequential positions instead.
//
// # Forecast Data
//
// The input stream carries wind-speed forecast datasets as flat JSON
// objects keyed by field name; only the newest message is ever simulated.
// The simulation engine returns per-turbine production series plus a
// total_production aggregate that is stripped before republishing.
package domain
