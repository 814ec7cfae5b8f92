package domain

// Value is a decoded knowledge-graph cell. It holds one of:
//
//   - float64 for decimal-typed literals
//   - a JSON-decoded structure ([]any / map[string]any) for Json-typed
//     literals, used for curve pair lists [[x, y], ...]
//   - string for every other literal, IRI, or label
//
// Blank nodes are surfaced as strings with a "_:" prefix to mark them as
// non-dereferenceable.
type Value any

// Attribute is one resolved graph attribute. When the attribute has no
// direct value, Value carries the human-readable label and Unit is nil.
// A single resolved unit yields a one-element Unit slice; when several
// distinct unit candidates resolve (paired curve data declares per-axis
// x/y units), all non-blank-node candidates are kept in order.
type Attribute struct {
	Value Value
	Unit  []string
}

// HasUnit reports whether the attribute resolved with a unit field at all.
// An empty non-nil Unit means the unit query matched only blank nodes.
func (a Attribute) HasUnit() bool {
	return a.Unit != nil
}

// AttributeMap holds resolved attributes keyed by entity name, then
// attribute name. Entities preserves first-seen query order so that
// synthesized artifacts are deterministic for a given query result.
type AttributeMap struct {
	Entities []string
	Attrs    map[string]map[string]Attribute
}

// NewAttributeMap returns an empty AttributeMap.
func NewAttributeMap() *AttributeMap {
	return &AttributeMap{Attrs: make(map[string]map[string]Attribute)}
}

// Put inserts an attribute under [entity][name]. A repeated (entity, name)
// pair overwrites the previous entry: last write wins.
func (m *AttributeMap) Put(entity, name string, attr Attribute) {
	if _, ok := m.Attrs[entity]; !ok {
		m.Attrs[entity] = make(map[string]Attribute)
		m.Entities = append(m.Entities, entity)
	}
	m.Attrs[entity][name] = attr
}

// Get looks up the attribute stored under [entity][name].
func (m *AttributeMap) Get(entity, name string) (Attribute, bool) {
	attrs, ok := m.Attrs[entity]
	if !ok {
		return Attribute{}, false
	}
	attr, ok := attrs[name]
	return attr, ok
}

// Len returns the number of entities.
func (m *AttributeMap) Len() int {
	return len(m.Entities)
}

// AsFloat coerces a Value to float64. JSON-decoded numbers and decimal
// literals both arrive as float64; integers decoded from JSON do too.
func AsFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// CurvePairs interprets a Value as a list of [x, y] sample pairs, the shape
// Json-typed power and thrust curves decode to. Pairs with extra trailing
// elements are accepted; their first two elements are used.
func CurvePairs(v Value) ([][2]float64, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	pairs := make([][2]float64, 0, len(list))
	for _, elem := range list {
		pair, ok := elem.([]any)
		if !ok || len(pair) < 2 {
			return nil, false
		}
		x, okX := AsFloat(pair[0])
		y, okY := AsFloat(pair[1])
		if !okX || !okY {
			return nil, false
		}
		pairs = append(pairs, [2]float64{x, y})
	}
	return pairs, true
}
