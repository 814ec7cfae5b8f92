package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/domain"
)

// The artifacts are rendered through the yaml.v3 node API so that mapping
// keys keep insertion order, mappings stay in block style, and numeric
// lists come out in flow style.

// TurbineTypesDoc builds the YAML document for the turbine-types artifact.
func TurbineTypesDoc(cfg *domain.TurbineTypesConfig) *yaml.Node {
	types := mappingNode()
	for _, name := range cfg.Order {
		entry := cfg.Types[name]
		m := mappingNode()
		appendPair(m, "binning", flowFloatSeq(entry.Binning))
		if entry.PowerCurve != nil {
			appendPair(m, "power_curve", flowFloatSeq(entry.PowerCurve))
			appendPair(m, "unit", strNode(entry.Unit))
		}
		if entry.ThrustCurve != nil {
			appendPair(m, "thrust_curve", flowFloatSeq(entry.ThrustCurve))
		}
		appendPair(types, name, m)
	}

	root := mappingNode()
	appendPair(root, "turbine_types", types)
	return root
}

// ParkDoc builds the YAML document for the park artifact, top-level keys in
// order park_name, site_type, roughness, turbines.
func ParkDoc(cfg *domain.ParkConfig) *yaml.Node {
	root := mappingNode()
	appendPair(root, "park_name", strNode(cfg.ParkName))
	appendPair(root, "site_type", strNode(cfg.SiteType))
	appendPair(root, "roughness", optFloatNode(cfg.Roughness))

	turbines := &yaml.Node{Kind: yaml.SequenceNode}
	for _, t := range cfg.Turbines {
		m := mappingNode()
		appendPair(m, "number", intNode(t.Number))
		appendPair(m, "name", strNode(t.Name))
		if t.Type != nil {
			appendPair(m, "type", strNode(*t.Type))
		} else {
			appendPair(m, "type", nullNode())
		}
		if t.HubHeight != nil {
			appendPair(m, "hub_height", floatNode(*t.HubHeight))
		}
		if t.RotorDiameter != nil {
			appendPair(m, "rotor_diameter", floatNode(*t.RotorDiameter))
		}

		loc := mappingNode()
		if t.Location.Latitude != nil {
			appendPair(loc, "latitude", floatNode(*t.Location.Latitude))
		}
		if t.Location.Longitude != nil {
			appendPair(loc, "longitude", floatNode(*t.Location.Longitude))
		}
		if t.Location.Altitude != nil {
			appendPair(loc, "altitude", floatNode(*t.Location.Altitude))
		}
		appendPair(m, "location", loc)

		turbines.Content = append(turbines.Content, m)
	}
	appendPair(root, "turbines", turbines)
	return root
}

// WriteFile renders the document to path, creating the parent directory if
// missing. The file is written in one pass.
func WriteFile(path string, doc *yaml.Node) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush artifact: %w", err)
	}
	return f.Close()
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, strNode(key), value)
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intNode(n int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(n)}
}

// floatNode renders with an explicit decimal point so the scalar resolves
// as a float and the encoder never falls back to an explicit !!float tag.
func floatNode(f float64) *yaml.Node {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}
}

func optFloatNode(f *float64) *yaml.Node {
	if f == nil {
		return nullNode()
	}
	return floatNode(*f)
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func flowFloatSeq(vals []float64) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range vals {
		seq.Content = append(seq.Content, floatNode(v))
	}
	return seq
}
