// Package generator synthesizes the turbine-types and park YAML artifacts
// from aggregated knowledge-graph attributes.
package generator

import (
	"fmt"
	"strings"

	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/domain"
)

// Attribute names the synthesizers read from the aggregated mappings.
const (
	attrPowerCurve    = "Power Curve"
	attrThrustCurve   = "Thrust Curve"
	attrRoughness     = "Roughness"
	attrTurbineType   = "Wind Turbine Type"
	attrHubHeight     = "Hub Height"
	attrRotorDiameter = "Rotor Diameter"
	attrLatitude      = "Latitude"
	attrLongitude     = "Longitude"
	attrAltitude      = "Altitude"
)

// SynthesizeTurbineTypes folds the turbine-type attribute mapping into
// per-type binning, power-curve, and thrust-curve arrays. Power values are
// normalized to kilowatts; a curve length mismatch is fatal for the whole
// artifact. Types with neither curve are skipped.
func SynthesizeTurbineTypes(attrs *domain.AttributeMap) (*domain.TurbineTypesConfig, error) {
	cfg := &domain.TurbineTypesConfig{Types: make(map[string]domain.TurbineTypeEntry)}

	for _, typeName := range attrs.Entities {
		var powerPairs, thrustPairs [][2]float64
		var powerUnit string

		if attr, ok := attrs.Get(typeName, attrPowerCurve); ok {
			if pairs, ok := domain.CurvePairs(attr.Value); ok {
				powerPairs = pairs
			}
			powerUnit = curveYUnit(attr.Unit)
		}
		if attr, ok := attrs.Get(typeName, attrThrustCurve); ok {
			if pairs, ok := domain.CurvePairs(attr.Value); ok {
				thrustPairs = pairs
			}
		}

		if len(powerPairs) == 0 && len(thrustPairs) == 0 {
			continue
		}

		// Binning comes from whichever curve is present; the power curve's
		// pairing wins when both exist.
		sourcePairs := powerPairs
		if len(sourcePairs) == 0 {
			sourcePairs = thrustPairs
		}

		entry := domain.TurbineTypeEntry{
			Binning: make([]float64, 0, len(sourcePairs)),
		}
		for _, pair := range sourcePairs {
			entry.Binning = append(entry.Binning, pair[0])
		}

		if len(powerPairs) > 0 {
			entry.PowerCurve = make([]float64, 0, len(powerPairs))
			divisor := powerDivisor(powerUnit)
			for _, pair := range powerPairs {
				entry.PowerCurve = append(entry.PowerCurve, pair[1]/divisor)
			}
			entry.Unit = "kW"
		}

		if len(thrustPairs) > 0 {
			entry.ThrustCurve = make([]float64, 0, len(thrustPairs))
			for _, pair := range thrustPairs {
				entry.ThrustCurve = append(entry.ThrustCurve, pair[1])
			}
		}

		if entry.PowerCurve != nil && len(entry.PowerCurve) != len(entry.Binning) {
			return nil, fmt.Errorf(
				"length mismatch for %s: binning has %d elements, power_curve has %d elements",
				typeName, len(entry.Binning), len(entry.PowerCurve))
		}
		if entry.ThrustCurve != nil && len(entry.ThrustCurve) != len(entry.Binning) {
			return nil, fmt.Errorf(
				"length mismatch for %s: binning has %d elements, thrust_curve has %d elements",
				typeName, len(entry.Binning), len(entry.ThrustCurve))
		}

		cfg.Order = append(cfg.Order, typeName)
		cfg.Types[typeName] = entry
	}

	return cfg, nil
}

// curveYUnit picks the y-axis unit candidate for paired curve data. With
// per-axis units resolved the candidates arrive as [xUnit, yUnit]; a single
// candidate applies to the whole curve. The unit IRI's last path segment is
// the identifier sniffed for the watt marker.
func curveYUnit(units []string) string {
	var u string
	switch {
	case len(units) >= 2:
		u = units[1]
	case len(units) == 1:
		u = units[0]
	default:
		return ""
	}
	if i := strings.LastIndex(u, "/"); i >= 0 {
		u = u[i+1:]
	}
	return u
}

// powerDivisor maps a free-text unit identifier to the divisor that brings
// power values to the canonical kilowatt scale. The substring sniffing
// mirrors the unit vocabulary as actually published in the graph; it is not
// a formal taxonomy.
func powerDivisor(unit string) float64 {
	u := strings.ToLower(unit)
	switch {
	case u == "":
		return 1
	case strings.Contains(u, "megaw") || strings.Contains(u, "mw"):
		return 1e6
	case strings.Contains(u, "w") && !strings.Contains(u, "kilow") && !strings.Contains(u, "kw"):
		return 1e3
	default:
		return 1
	}
}
