package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeMap_PutPreservesOrder(t *testing.T) {
	m := NewAttributeMap()
	m.Put("zeta", "a", Attribute{Value: 1.0})
	m.Put("alpha", "a", Attribute{Value: 2.0})
	m.Put("zeta", "b", Attribute{Value: 3.0})

	assert.Equal(t, []string{"zeta", "alpha"}, m.Entities)
	assert.Equal(t, 2, m.Len())
}

func TestAttributeMap_LastWriteWins(t *testing.T) {
	m := NewAttributeMap()
	m.Put("park", "Roughness", Attribute{Value: 0.01})
	m.Put("park", "Roughness", Attribute{Value: 0.03})

	attr, ok := m.Get("park", "Roughness")
	require.True(t, ok)
	assert.Equal(t, 0.03, attr.Value)
	assert.Equal(t, []string{"park"}, m.Entities, "overwrite does not duplicate the entity")
}

func TestAttributeMap_GetMissing(t *testing.T) {
	m := NewAttributeMap()
	m.Put("park", "Roughness", Attribute{Value: 0.03})

	_, ok := m.Get("park", "Altitude")
	assert.False(t, ok)
	_, ok = m.Get("other", "Roughness")
	assert.False(t, ok)
}

func TestAttribute_HasUnit(t *testing.T) {
	assert.False(t, Attribute{Value: "label"}.HasUnit())
	assert.True(t, Attribute{Value: 1.0, Unit: []string{}}.HasUnit(), "all-blank-node candidates still count as a unit field")
	assert.True(t, Attribute{Value: 1.0, Unit: []string{"kW"}}.HasUnit())
}

func TestAsFloat(t *testing.T) {
	v, ok := AsFloat(117.5)
	assert.True(t, ok)
	assert.Equal(t, 117.5, v)

	v, ok = AsFloat(42)
	assert.True(t, ok)
	assert.Equal(t, 42.0, v)

	_, ok = AsFloat("117.5")
	assert.False(t, ok)
	_, ok = AsFloat(nil)
	assert.False(t, ok)
}

func TestCurvePairs(t *testing.T) {
	pairs, ok := CurvePairs([]any{
		[]any{3.0, 100.0},
		[]any{5.0, 300.0},
	})
	require.True(t, ok)
	assert.Equal(t, [][2]float64{{3, 100}, {5, 300}}, pairs)
}

func TestCurvePairs_ExtraElementsAccepted(t *testing.T) {
	pairs, ok := CurvePairs([]any{[]any{3.0, 100.0, 0.9}})
	require.True(t, ok)
	assert.Equal(t, [][2]float64{{3, 100}}, pairs)
}

func TestCurvePairs_Rejects(t *testing.T) {
	_, ok := CurvePairs("not a list")
	assert.False(t, ok)

	_, ok = CurvePairs([]any{"not a pair"})
	assert.False(t, ok)

	_, ok = CurvePairs([]any{[]any{3.0}})
	assert.False(t, ok, "a single-element pair has no y value")

	_, ok = CurvePairs([]any{[]any{"3", "100"}})
	assert.False(t, ok, "string coordinates are not coerced")
}
