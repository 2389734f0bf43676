package swapi

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Sternrassler/swapi-export/pkg/queryset"
)

// Person field names.
const (
	FieldName       = "name"
	FieldHeight     = "height"
	FieldFilmsCount = "films_count"
	FieldSpecies    = "species"
)

// Person is a SWAPI people record.
type Person struct {
	Name string

	// Height in centimetres, nil when SWAPI reports a non-numeric value
	Height *int

	// FilmsCount is the number of films the person appears in
	FilmsCount int

	// Species references the person's species
	Species queryset.Ref
}

// NewPerson builds a Person the way it is decoded from SWAPI: height is
// parsed when it is all digits, and the last species URL is kept.
func NewPerson(name, height string, films []string, species []string) Person {
	p := Person{
		Name:       name,
		Height:     parseHeight(height),
		FilmsCount: len(films),
	}
	if len(species) > 0 {
		p.Species = queryset.NewRef(species[len(species)-1])
	}
	return p
}

// String implements fmt.Stringer.
func (p Person) String() string {
	return fmt.Sprintf("<Person - %s>", p.Name)
}

type personJSON struct {
	Name    string            `json:"name"`
	Height  json.RawMessage   `json:"height"`
	Films   []json.RawMessage `json:"films"`
	Species []string          `json:"species"`
}

// DecodePerson builds a Person from a SWAPI people object.
func DecodePerson(raw json.RawMessage) (Person, error) {
	var v personJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return Person{}, err
	}

	p := Person{
		Name:       v.Name,
		FilmsCount: len(v.Films),
	}

	// height is a string in SWAPI ("172", "unknown"), tolerate plain numbers
	var height string
	if err := json.Unmarshal(v.Height, &height); err == nil {
		p.Height = parseHeight(height)
	} else {
		var n int
		if err := json.Unmarshal(v.Height, &n); err == nil && n >= 0 {
			p.Height = &n
		}
	}

	if len(v.Species) > 0 {
		p.Species = queryset.NewRef(v.Species[len(v.Species)-1])
	}

	return p, nil
}

// parseHeight returns nil unless s is a non-empty run of ASCII digits.
func parseHeight(s string) *int {
	if s == "" {
		return nil
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// PeopleKind describes people served under endpoint.
func PeopleKind(endpoint string) queryset.Kind[Person] {
	return queryset.Kind[Person]{
		Name:        "People",
		Endpoint:    endpoint,
		Decode:      DecodePerson,
		DisplayName: func(p Person) string { return p.Name },
		Fields: map[string]queryset.Field[Person]{
			FieldName:       queryset.StringField(func(p Person) string { return p.Name }),
			FieldHeight:     queryset.OptionalIntField(func(p Person) *int { return p.Height }),
			FieldFilmsCount: queryset.IntField(func(p Person) int { return p.FilmsCount }),
			FieldSpecies: queryset.RefField(
				func(p Person) queryset.Ref { return p.Species },
				func(p Person, r queryset.Ref) Person {
					p.Species = r
					return p
				},
			),
		},
	}
}

// People is the people kind at the default endpoint.
var People = PeopleKind(EndpointPeople)
