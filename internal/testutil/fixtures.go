package testutil

import "fmt"

// Person builds a SWAPI person object. species holds species IDs that are
// turned into URLs under the mock server.
func (m *MockSWAPI) Person(name, height string, films int, species ...int) map[string]any {
	filmURLs := make([]any, films)
	for i := range filmURLs {
		filmURLs[i] = fmt.Sprintf("%s/films/%d/", m.BaseURL(), i+1)
	}
	speciesURLs := make([]any, len(species))
	for i, id := range species {
		speciesURLs[i] = m.SpeciesURL(id)
	}
	return map[string]any{
		"name":    name,
		"height":  height,
		"films":   filmURLs,
		"species": speciesURLs,
	}
}

// SpeciesURL returns the mock URL of a species resource.
func (m *MockSWAPI) SpeciesURL(id int) string {
	return fmt.Sprintf("%s/species/%d/", m.BaseURL(), id)
}

// FixtureSpecies maps species IDs served by LoadFixtures to their names.
var FixtureSpecies = map[int]string{
	1: "Human",
	2: "Droid",
	3: "Wookie",
}

// LoadFixtures registers a two-page people collection (10 + 2 people) on
// /api/people and the species they reference on /api/species/{id}.
func (m *MockSWAPI) LoadFixtures() {
	page1 := []any{
		m.Person("Luke Skywalker", "172", 5, 1),
		m.Person("C-3PO", "167", 6, 2),
		m.Person("R2-D2", "96", 7, 2),
		m.Person("Darth Vader", "202", 4, 1),
		m.Person("Leia Organa", "150", 5, 1),
		m.Person("Owen Lars", "178", 3, 1),
		m.Person("Beru Whitesun lars", "165", 3, 1),
		m.Person("R5-D4", "97", 1, 2),
		m.Person("Biggs Darklighter", "183", 1, 1),
		m.Person("Obi-Wan Kenobi", "182", 6, 1),
	}
	page2 := []any{
		m.Person("Chewbacca", "228", 4, 3),
		m.Person("Arvel Crynyd", "unknown", 1),
	}
	m.SetPages("/api/people", page1, page2)

	for id, name := range FixtureSpecies {
		m.SetJSON(fmt.Sprintf("/api/species/%d", id), map[string]any{
			"name":           name,
			"classification": "mammal",
		})
	}
}
