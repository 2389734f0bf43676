package swapi

import (
	"encoding/json"
	"fmt"

	"github.com/Sternrassler/swapi-export/pkg/queryset"
)

// Species is a SWAPI species record.
type Species struct {
	Name string
}

// NewSpecies builds a Species.
func NewSpecies(name string) Species {
	return Species{Name: name}
}

// String implements fmt.Stringer.
func (s Species) String() string {
	return fmt.Sprintf("<Species - %s>", s.Name)
}

// DecodeSpecies builds a Species from a SWAPI species object.
func DecodeSpecies(raw json.RawMessage) (Species, error) {
	var v struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return Species{}, err
	}
	return Species{Name: v.Name}, nil
}

// SpeciesKindAt describes species served under endpoint.
func SpeciesKindAt(endpoint string) queryset.Kind[Species] {
	return queryset.Kind[Species]{
		Name:        "Species",
		Endpoint:    endpoint,
		Decode:      DecodeSpecies,
		DisplayName: func(s Species) string { return s.Name },
		Fields: map[string]queryset.Field[Species]{
			FieldName: queryset.StringField(func(s Species) string { return s.Name }),
		},
	}
}

// SpeciesKind is the species kind at the default endpoint.
var SpeciesKind = SpeciesKindAt(EndpointSpecies)
