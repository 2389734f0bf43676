package queryset

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Fetcher is the remote side of a QuerySet. *client.Client implements it.
type Fetcher interface {
	FetchAll(ctx context.Context, endpoint string) ([]json.RawMessage, error)
	FetchOne(ctx context.Context, url string) (json.RawMessage, error)
}

// Direction of an ordering.
type Direction int

const (
	// Descending is the default ordering direction.
	Descending Direction = iota
	Ascending
)

// Option configures a QuerySet.
type Option func(*options)

type options struct {
	foreignKeys map[string]Resolver
	workers     int
	logger      *zerolog.Logger
}

// WithForeignKey registers resolver as responsible for the reference field.
func WithForeignKey(field string, resolver Resolver) Option {
	return func(o *options) {
		o.foreignKeys[field] = resolver
	}
}

// WithWorkers sets how many references ResolveForeignKeys resolves at once.
// Values below 2 keep resolution sequential.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger replaces the default component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// QuerySet is an ordered collection of records of one kind.
type QuerySet[T any] struct {
	kind        Kind[T]
	fetcher     Fetcher
	items       []T
	foreignKeys map[string]Resolver
	workers     int
	logger      zerolog.Logger
}

// New creates an empty QuerySet. fetcher may be nil for sets that are
// only built from items.
func New[T any](kind Kind[T], fetcher Fetcher, opts ...Option) *QuerySet[T] {
	return FromItems(kind, fetcher, nil, opts...)
}

// FromItems creates a QuerySet holding a copy of items.
func FromItems[T any](kind Kind[T], fetcher Fetcher, items []T, opts ...Option) *QuerySet[T] {
	o := options{
		foreignKeys: make(map[string]Resolver),
		workers:     1,
	}
	for _, opt := range opts {
		opt(&o)
	}

	logger := log.With().Str("component", "queryset").Str("kind", kind.Name).Logger()
	if o.logger != nil {
		logger = *o.logger
	}

	return &QuerySet[T]{
		kind:        kind,
		fetcher:     fetcher,
		items:       slices.Clone(items),
		foreignKeys: o.foreignKeys,
		workers:     o.workers,
		logger:      logger,
	}
}

// derive returns a sibling set holding items. The foreign-key mapping is
// shared: it is never modified after construction.
func (qs *QuerySet[T]) derive(items []T) *QuerySet[T] {
	return &QuerySet[T]{
		kind:        qs.kind,
		fetcher:     qs.fetcher,
		items:       items,
		foreignKeys: qs.foreignKeys,
		workers:     qs.workers,
		logger:      qs.logger,
	}
}

// Kind returns the record kind of the set.
func (qs *QuerySet[T]) Kind() Kind[T] {
	return qs.kind
}

// FetchAll replaces the items with every record of the kind's endpoint.
func (qs *QuerySet[T]) FetchAll(ctx context.Context) (*QuerySet[T], error) {
	if qs.fetcher == nil {
		return nil, ErrNoFetcher
	}

	raws, err := qs.fetcher.FetchAll(ctx, qs.kind.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", qs.kind.Name, err)
	}

	items, err := DecodeAll(qs.kind, raws)
	if err != nil {
		return nil, err
	}

	qs.items = items
	qs.logger.Debug().Int("items", len(items)).Msg("Query set populated")
	return qs, nil
}

// FetchByURL replaces the items with the single record at url.
func (qs *QuerySet[T]) FetchByURL(ctx context.Context, url string) (*QuerySet[T], error) {
	if qs.fetcher == nil {
		return nil, ErrNoFetcher
	}

	raw, err := qs.fetcher.FetchOne(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", qs.kind.Name, url, err)
	}

	item, err := DecodeOne(qs.kind, raw)
	if err != nil {
		return nil, err
	}

	qs.items = []T{item}
	return qs, nil
}

// OrderBy returns a new set sorted by field. The sort is stable and
// descending unless Ascending is passed. Absent values sort lowest.
func (qs *QuerySet[T]) OrderBy(field string, dir ...Direction) (*QuerySet[T], error) {
	f, err := qs.kind.field(field)
	if err != nil {
		return nil, err
	}

	desc := len(dir) == 0 || dir[0] == Descending

	items := slices.Clone(qs.items)
	slices.SortStableFunc(items, func(a, b T) int {
		if desc {
			return f.Compare(b, a)
		}
		return f.Compare(a, b)
	})

	return qs.derive(items), nil
}

// Len returns the number of items.
func (qs *QuerySet[T]) Len() int {
	return len(qs.items)
}

// Items returns a copy of the items in current order.
func (qs *QuerySet[T]) Items() []T {
	return slices.Clone(qs.items)
}

// All iterates over the items in current order. The sequence can be
// ranged over any number of times.
func (qs *QuerySet[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range qs.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// ForeignKeys returns the registered foreign-key field names, sorted.
func (qs *QuerySet[T]) ForeignKeys() []string {
	return slices.Sorted(maps.Keys(qs.foreignKeys))
}

// DisplayName returns the display name of the last item, the value a
// reference to this set's single fetched record resolves to.
func (qs *QuerySet[T]) DisplayName() (string, error) {
	if len(qs.items) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmpty, qs.kind.Name)
	}
	return qs.kind.DisplayName(qs.items[len(qs.items)-1]), nil
}

// Values returns one row of stringified cells per item, in the order of
// fields. Absent values and empty field names give empty cells.
func (qs *QuerySet[T]) Values(fields ...string) ([][]string, error) {
	accessors := make([]*Field[T], len(fields))
	for i, name := range fields {
		if name == "" {
			continue
		}
		f, err := qs.kind.field(name)
		if err != nil {
			return nil, err
		}
		accessors[i] = &f
	}

	rows := make([][]string, 0, len(qs.items))
	for _, item := range qs.items {
		row := make([]string, len(fields))
		for i, f := range accessors {
			if f == nil {
				continue
			}
			if v := f.Value(item); v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// String implements fmt.Stringer.
func (qs *QuerySet[T]) String() string {
	return fmt.Sprintf("<%sQuerySet - %d>", qs.kind.Name, len(qs.items))
}
