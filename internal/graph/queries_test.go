package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/sparql"
)

func TestLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Windpark Alkmaar", `"Windpark Alkmaar"`},
		{"quote", `say "hi"`, `"say \"hi\""`},
		{"backslash", `a\b`, `"a\\b"`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"injection attempt", `" . ?s ?p ?o . "`, `"\" . ?s ?p ?o . \""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, literal(tt.in))
		})
	}
}

func TestAdapter_QueriesScopedByScenarioAndSite(t *testing.T) {
	exec := &fakeExecutor{}
	a := NewAdapter(exec, discardLogger(), nil)

	_, err := a.WindparkAttributes(t.Context(), "BaselineAlkmaar", "Windpark Alkmaar")
	require.NoError(t, err)
	_, err = a.TurbineAttributes(t.Context(), "BaselineAlkmaar", "Windpark Alkmaar")
	require.NoError(t, err)
	_, err = a.TurbineTypeAttributes(t.Context(), "BaselineAlkmaar", "Windpark Alkmaar")
	require.NoError(t, err)

	require.Len(t, exec.queries, 3)
	for _, q := range exec.queries {
		assert.Contains(t, q, `rdfs:label "BaselineAlkmaar"`)
		assert.Contains(t, q, `rdfs:label "Windpark Alkmaar"`)
	}
	assert.Contains(t, exec.queries[0], "hasGlobalWindAtlasSiteAttribute")
	assert.Contains(t, exec.queries[1], "hasWindTurbineAttribute")
	assert.Contains(t, exec.queries[2], "SELECT DISTINCT")
	assert.Contains(t, exec.queries[2], "hasWindTurbineTypeAttribute")
}

func TestAdapter_EscapesNames(t *testing.T) {
	exec := &fakeExecutor{}
	a := NewAdapter(exec, discardLogger(), nil)

	_, err := a.WindparkAttributes(t.Context(), `Base" } DROP`, "park")
	require.NoError(t, err)
	require.Len(t, exec.queries, 1)
	assert.Contains(t, exec.queries[0], `rdfs:label "Base\" } DROP"`)
}

func TestAdapter_AggregatesRetrievedRows(t *testing.T) {
	exec := &fakeExecutor{responses: map[string][]sparql.Row{
		"hasWindTurbineAttribute": rows(
			sparql.Row{"Alkmaar 1", "Hub Height", "urn:attr:h1"},
		),
		"urn:attr:h1": rows(sparql.Row{117.5}),
	}}
	a := NewAdapter(exec, discardLogger(), nil)

	out, err := a.TurbineAttributes(t.Context(), "s", "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alkmaar 1"}, out.Entities)

	attr, ok := out.Get("Alkmaar 1", "Hub Height")
	require.True(t, ok)
	assert.Equal(t, 117.5, attr.Value)
}
