package generator

import (
	"sort"
	"strconv"
	"strings"

	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/domain"
)

// SynthesizePark folds the windpark and turbine attribute mappings into a
// park descriptor. Turbines are numbered from the trailing token of their
// name, unit-converted where the graph declares centimeters, and sorted
// ascending by number.
func SynthesizePark(site string, parkAttrs, turbineAttrs *domain.AttributeMap) *domain.ParkConfig {
	cfg := &domain.ParkConfig{
		ParkName: site,
		SiteType: "GlobalWindAtlasSite",
	}

	if attr, ok := parkAttrs.Get(site, attrRoughness); ok {
		if v, ok := domain.AsFloat(attr.Value); ok {
			cfg.Roughness = &v
		}
	}

	for _, turbineName := range turbineAttrs.Entities {
		attrs := turbineAttrs.Attrs[turbineName]
		entry := domain.TurbineEntry{
			Number: turbineNumber(turbineName, len(cfg.Turbines)+1),
			Name:   turbineName,
		}

		if attr, ok := attrs[attrTurbineType]; ok {
			if label, ok := attr.Value.(string); ok {
				t := strings.ToLower(label)
				entry.Type = &t
			}
		}

		if v, ok := lengthInMeters(attrs, attrHubHeight); ok {
			entry.HubHeight = &v
		}
		if v, ok := lengthInMeters(attrs, attrRotorDiameter); ok {
			entry.RotorDiameter = &v
		}

		entry.Location = domain.Location{
			Latitude:  floatAttr(attrs, attrLatitude),
			Longitude: floatAttr(attrs, attrLongitude),
			Altitude:  floatAttr(attrs, attrAltitude),
		}

		cfg.Turbines = append(cfg.Turbines, entry)
	}

	// Stable: turbines with equal numbers keep query order.
	sort.SliceStable(cfg.Turbines, func(i, j int) bool {
		return cfg.Turbines[i].Number < cfg.Turbines[j].Number
	})

	return cfg
}

// turbineNumber parses the trailing whitespace-delimited token of the name
// as the turbine number ("Alkmaar 7" → 7). Names without a separator or
// with a non-numeric tail fall back to the given sequential number.
func turbineNumber(name string, fallback int) int {
	parts := strings.Fields(name)
	if len(parts) > 1 {
		if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			return n
		}
	}
	return fallback
}

// lengthInMeters reads a length attribute, converting from centimeters when
// any resolved unit candidate carries the CentiM marker.
func lengthInMeters(attrs map[string]domain.Attribute, name string) (float64, bool) {
	attr, ok := attrs[name]
	if !ok {
		return 0, false
	}
	v, ok := domain.AsFloat(attr.Value)
	if !ok {
		return 0, false
	}
	for _, u := range attr.Unit {
		if strings.Contains(u, "CentiM") {
			return v / 100.0, true
		}
	}
	return v, true
}

func floatAttr(attrs map[string]domain.Attribute, name string) *float64 {
	attr, ok := attrs[name]
	if !ok {
		return nil
	}
	v, ok := domain.AsFloat(attr.Value)
	if !ok {
		return nil
	}
	return &v
}
