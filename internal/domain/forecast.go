package domain

import (
	"context"
	"encoding/json"
	"time"
)

// WindDataset is one wind-speed forecast message pulled from the input
// stream: field name → JSON-encoded value, exactly as published by the
// upstream forecast job. The pipeline never interprets the fields; it
// hands them to the simulation engine as-is.
type WindDataset struct {
	Fields    map[string]json.RawMessage
	Timestamp time.Time
}

// SimulationResult is the wind-park simulation output: field name →
// JSON-encoded value series. The total_production field is stripped
// before republication.
type SimulationResult map[string]json.RawMessage

// TotalProductionField is dropped from results before they are published.
const TotalProductionField = "total_production"

// Simulator runs the external wind-park simulation engine on a forecast
// dataset. The physics lives entirely behind this boundary.
type Simulator interface {
	SimulateWindTimeseries(ctx context.Context, dataset WindDataset) (SimulationResult, error)
}
