package queryset

import "errors"

var (
	// ErrInvalidArgument is returned for index keys that are neither an int nor a Slice,
	// and for slices with a zero step.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotImplemented is returned for multi-dimensional (tuple) index keys.
	ErrNotImplemented = errors.New("not implemented")

	// ErrIndexOutOfRange is returned by At for indices outside the set.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrUnknownField is returned when a field name is not in the kind's accessor table.
	ErrUnknownField = errors.New("unknown field")

	// ErrNotReference is returned when a foreign key is registered on a non-reference field.
	ErrNotReference = errors.New("field is not a reference")

	// ErrNoFetcher is returned by fetch operations on a QuerySet built without a Fetcher.
	ErrNoFetcher = errors.New("query set has no fetcher")

	// ErrEmpty is returned when a single record is needed from an empty set.
	ErrEmpty = errors.New("query set is empty")
)
