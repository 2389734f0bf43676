package queryset

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind describes one record kind.
type Kind[T any] struct {
	// Name is used in String() and log lines (e.g. "People").
	Name string

	// Endpoint is the collection path relative to the API base URL.
	Endpoint string

	// Decode builds a record from one decoded JSON object.
	Decode func(raw json.RawMessage) (T, error)

	// DisplayName is the value written into references that point at this kind.
	DisplayName func(T) string

	// Fields is the accessor table, keyed by field name.
	Fields map[string]Field[T]
}

// Field is an entry of a Kind's accessor table.
type Field[T any] struct {
	// Value returns the field's value for export, nil when absent.
	Value func(T) any

	// Compare orders two records by the field. Absent values sort lowest.
	Compare func(a, b T) int

	// Ref and SetRef are only set for reference fields.
	Ref    func(T) Ref
	SetRef func(T, Ref) T
}

// IsRef reports whether the field can be resolved as a foreign key.
func (f Field[T]) IsRef() bool {
	return f.Ref != nil && f.SetRef != nil
}

// absentInt is the sort key of a missing numeric value.
const absentInt = -1

// IntField builds a numeric field that is always present.
func IntField[T any](get func(T) int) Field[T] {
	return Field[T]{
		Value: func(item T) any { return get(item) },
		Compare: func(a, b T) int {
			return cmp.Compare(get(a), get(b))
		},
	}
}

// OptionalIntField builds a numeric field where nil means absent.
func OptionalIntField[T any](get func(T) *int) Field[T] {
	key := func(item T) int {
		if v := get(item); v != nil {
			return *v
		}
		return absentInt
	}
	return Field[T]{
		Value: func(item T) any {
			if v := get(item); v != nil {
				return *v
			}
			return nil
		},
		Compare: func(a, b T) int {
			return cmp.Compare(key(a), key(b))
		},
	}
}

// StringField builds a text field. The empty string sorts lowest.
func StringField[T any](get func(T) string) Field[T] {
	return Field[T]{
		Value: func(item T) any { return get(item) },
		Compare: func(a, b T) int {
			return strings.Compare(get(a), get(b))
		},
	}
}

// RefField builds a reference field. Ordering uses the current value:
// the URL before resolution, the name after. Absent references sort lowest.
func RefField[T any](get func(T) Ref, set func(T, Ref) T) Field[T] {
	return Field[T]{
		Value: func(item T) any {
			if r := get(item); !r.IsAbsent() {
				return r.String()
			}
			return nil
		},
		Compare: func(a, b T) int {
			ra, rb := get(a), get(b)
			if ra.IsAbsent() || rb.IsAbsent() {
				return cmp.Compare(boolInt(!ra.IsAbsent()), boolInt(!rb.IsAbsent()))
			}
			return strings.Compare(ra.String(), rb.String())
		},
		Ref:    get,
		SetRef: set,
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// field looks up name in the accessor table.
func (k Kind[T]) field(name string) (Field[T], error) {
	f, ok := k.Fields[name]
	if !ok {
		return Field[T]{}, fmt.Errorf("%w: %s has no field %q", ErrUnknownField, k.Name, name)
	}
	return f, nil
}

// DecodeAll maps a list of decoded objects to records, keeping order.
func DecodeAll[T any](kind Kind[T], raws []json.RawMessage) ([]T, error) {
	items := make([]T, 0, len(raws))
	for i, raw := range raws {
		item, err := kind.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s item %d: %w", kind.Name, i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// DecodeOne maps a single decoded object to one record.
func DecodeOne[T any](kind Kind[T], raw json.RawMessage) (T, error) {
	item, err := kind.Decode(raw)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("decode %s: %w", kind.Name, err)
	}
	return item, nil
}
