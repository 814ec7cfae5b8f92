package domain

// TurbineTypeEntry is one synthesized turbine-type record: the shared
// wind-speed binning plus whichever curves the graph declared for the type.
// Invariant: when a curve is present its length equals len(Binning).
type TurbineTypeEntry struct {
	Binning     []float64
	PowerCurve  []float64 // nil when the type has no power curve
	Unit        string    // "kW" whenever PowerCurve is set
	ThrustCurve []float64 // nil when the type has no thrust curve
}

// TurbineTypesConfig is the turbine-types artifact. Order preserves the
// aggregation order of the type entities so repeated runs over the same
// query result emit identical YAML.
type TurbineTypesConfig struct {
	Order []string
	Types map[string]TurbineTypeEntry
}

// Location is a turbine's position. Fields whose attribute is absent in the
// graph stay nil and are omitted from the emitted artifact.
type Location struct {
	Latitude  *float64
	Longitude *float64
	Altitude  *float64
}

// TurbineEntry is one turbine record in the park artifact.
type TurbineEntry struct {
	Number        int
	Name          string
	Type          *string // lowercase type label, nil when undeclared
	HubHeight     *float64
	RotorDiameter *float64
	Location      Location
}

// ParkConfig is the park artifact: park-level roughness plus the turbine
// list sorted ascending by Number.
type ParkConfig struct {
	ParkName  string
	SiteType  string
	Roughness *float64
	Turbines  []TurbineEntry
}
