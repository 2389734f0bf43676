// Package swapi defines the SWAPI record kinds (people and species) on top
// of package queryset.
package swapi

import "github.com/Sternrassler/swapi-export/pkg/queryset"

// Default endpoint paths, relative to the API base URL.
const (
	EndpointPeople  = "people"
	EndpointSpecies = "species"
)

// NewPeople creates an empty people query set.
func NewPeople(fetcher queryset.Fetcher, opts ...queryset.Option) *queryset.QuerySet[Person] {
	return queryset.New(People, fetcher, opts...)
}

// NewSpeciesSet creates an empty species query set.
func NewSpeciesSet(fetcher queryset.Fetcher, opts ...queryset.Option) *queryset.QuerySet[Species] {
	return queryset.New(SpeciesKind, fetcher, opts...)
}
