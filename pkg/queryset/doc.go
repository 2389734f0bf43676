// Package queryset provides QuerySet, a generic, chainable collection of
// records of one kind backed by a paginated REST API.
//
// A record kind is described once by a Kind value: the endpoint it lives
// under, how a decoded JSON object becomes a record, the display name used
// when another kind points at it, and an accessor table of named fields.
// The accessor table is what makes ordering, export and foreign-key
// resolution generic over field names without reflection.
//
// # Basic Usage
//
//	species := queryset.New(speciesKind, client)
//	people := queryset.New(peopleKind, client,
//		queryset.WithForeignKey("species", species),
//	)
//
//	if _, err := people.FetchAll(ctx); err != nil {
//		return err
//	}
//
//	top, err := people.OrderBy("films_count")
//	if err != nil {
//		return err
//	}
//	top, err = top.Slice(queryset.To(10))
//	if err != nil {
//		return err
//	}
//	if err := top.ResolveForeignKeys(ctx); err != nil {
//		return err
//	}
//
// # Semantics
//
// FetchAll, FetchByURL and ResolveForeignKeys change the receiver. OrderBy
// and Slice return a sibling QuerySet with its own item sequence and the
// same foreign-key mapping. Slice bounds are clamped to the sequence and
// may be negative (counted from the end), as may the step.
//
// Resolution should run last: ordering on a reference field before it is
// resolved orders by URL.
package queryset
