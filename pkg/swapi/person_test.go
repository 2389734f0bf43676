package swapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPerson(t *testing.T) {
	p := NewPerson("name", "100", []string{"1"}, []string{"species"})

	assert.Equal(t, "name", p.Name)
	require.NotNil(t, p.Height)
	assert.Equal(t, 100, *p.Height)
	assert.Equal(t, 1, p.FilmsCount)
	assert.True(t, p.Species.IsUnresolved())
	assert.Equal(t, "species", p.Species.URL())
}

func TestNewPerson_LastSpeciesWins(t *testing.T) {
	p := NewPerson("hybrid", "1", nil, []string{"first", "second"})
	assert.Equal(t, "second", p.Species.URL())
}

func TestNewPerson_NoSpecies(t *testing.T) {
	p := NewPerson("Arvel Crynyd", "unknown", []string{"1"}, nil)

	assert.Nil(t, p.Height)
	assert.True(t, p.Species.IsAbsent())
	assert.Equal(t, 1, p.FilmsCount)
}

func TestParseHeight(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{in: "172", want: intPtr(172)},
		{in: "0", want: intPtr(0)},
		{in: "unknown", want: nil},
		{in: "", want: nil},
		{in: "-5", want: nil},
		{in: "1,000", want: nil},
		{in: "1.5", want: nil},
		{in: " 12", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseHeight(tt.in))
		})
	}
}

func TestPersonString(t *testing.T) {
	p := NewPerson("name", "100", []string{"1"}, []string{"species"})
	assert.Equal(t, "<Person - name>", p.String())
}

func TestDecodePerson(t *testing.T) {
	raw := json.RawMessage(`{
		"name": "Luke Skywalker",
		"height": "172",
		"mass": "77",
		"films": ["https://swapi.dev/api/films/1/", "https://swapi.dev/api/films/2/"],
		"species": ["https://swapi.dev/api/species/1/"]
	}`)

	p, err := DecodePerson(raw)
	require.NoError(t, err)

	assert.Equal(t, "Luke Skywalker", p.Name)
	require.NotNil(t, p.Height)
	assert.Equal(t, 172, *p.Height)
	assert.Equal(t, 2, p.FilmsCount)
	assert.Equal(t, "https://swapi.dev/api/species/1/", p.Species.URL())
}

func TestDecodePerson_Heights(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{name: "numeric string", raw: `{"height": "96"}`, want: intPtr(96)},
		{name: "unknown", raw: `{"height": "unknown"}`, want: nil},
		{name: "number", raw: `{"height": 180}`, want: intPtr(180)},
		{name: "negative number", raw: `{"height": -1}`, want: nil},
		{name: "missing", raw: `{}`, want: nil},
		{name: "null", raw: `{"height": null}`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodePerson(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Height)
			assert.Zero(t, p.FilmsCount)
			assert.True(t, p.Species.IsAbsent())
		})
	}
}

func TestDecodePerson_Invalid(t *testing.T) {
	_, err := DecodePerson(json.RawMessage(`["not", "an", "object"]`))
	assert.Error(t, err)
}

func TestPeopleKind(t *testing.T) {
	kind := PeopleKind("custom")

	assert.Equal(t, "People", kind.Name)
	assert.Equal(t, "custom", kind.Endpoint)
	assert.Equal(t, EndpointPeople, People.Endpoint)
	assert.ElementsMatch(t,
		[]string{FieldName, FieldHeight, FieldFilmsCount, FieldSpecies},
		keys(kind.Fields),
	)
	assert.True(t, kind.Fields[FieldSpecies].IsRef())
	assert.False(t, kind.Fields[FieldHeight].IsRef())
	assert.Equal(t, "Leia", kind.DisplayName(NewPerson("Leia", "150", nil, nil)))
}

func intPtr(n int) *int {
	return &n
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
