package queryset

import (
	"fmt"
	"reflect"
)

// Slice selects a sub-sequence [Start:Stop:Step]. A nil bound or step
// takes its default; negative bounds count from the end.
type Slice struct {
	Start *int
	Stop  *int
	Step  *int
}

// Span selects [start:stop].
func Span(start, stop int) Slice {
	return Slice{Start: &start, Stop: &stop}
}

// From selects [start:].
func From(start int) Slice {
	return Slice{Start: &start}
}

// To selects [:stop].
func To(stop int) Slice {
	return Slice{Stop: &stop}
}

// By returns s with the given step.
func (s Slice) By(step int) Slice {
	s.Step = &step
	return s
}

// Indices normalises s against a sequence of length n: bounds are
// resolved and clamped so that iterating from start towards stop by step
// stays in range.
func (s Slice) Indices(n int) (start, stop, step int, err error) {
	step = 1
	if s.Step != nil {
		step = *s.Step
	}
	if step == 0 {
		return 0, 0, 0, fmt.Errorf("%w: slice step cannot be zero", ErrInvalidArgument)
	}

	lower, upper := 0, n
	if step < 0 {
		lower, upper = -1, n-1
	}

	clamp := func(v *int, def int) int {
		if v == nil {
			return def
		}
		i := *v
		if i < 0 {
			i += n
		}
		if i < lower {
			return lower
		}
		if i > upper {
			return upper
		}
		return i
	}

	if step > 0 {
		start, stop = clamp(s.Start, lower), clamp(s.Stop, upper)
	} else {
		start, stop = clamp(s.Start, upper), clamp(s.Stop, lower)
	}
	return start, stop, step, nil
}

// sliceLen counts the positions visited from start towards stop by step.
// start and stop come from Indices, so their distance is at most len+1.
// step is never negated, which keeps math.MinInt usable.
func sliceLen(start, stop, step int) int {
	switch {
	case step > 0 && start < stop:
		return (stop-start-1)/step + 1
	case step < 0 && start > stop:
		return (stop-start+1)/step + 1
	default:
		return 0
	}
}

// Tuple is a multi-dimensional index key. Indexing with it is not supported.
type Tuple []int

// At returns the record at index i. Negative indices count from the end.
func (qs *QuerySet[T]) At(i int) (T, error) {
	n := len(qs.items)
	idx := i
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		var zero T
		return zero, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, n)
	}
	return qs.items[idx], nil
}

// Slice returns a new set with the selected items and the same
// foreign-key mapping.
func (qs *QuerySet[T]) Slice(s Slice) (*QuerySet[T], error) {
	start, stop, step, err := s.Indices(len(qs.items))
	if err != nil {
		return nil, err
	}

	count := sliceLen(start, stop, step)
	items := make([]T, 0, count)
	for k := 0; k < count; k++ {
		items = append(items, qs.items[start+k*step])
	}
	return qs.derive(items), nil
}

// Index dispatches on the key type: an int returns the record itself, a
// Slice returns a *QuerySet[T]. Tuple keys, int slices and fixed-size arrays
// fail with ErrNotImplemented, anything else with ErrInvalidArgument.
func (qs *QuerySet[T]) Index(key any) (any, error) {
	switch k := key.(type) {
	case int:
		item, err := qs.At(k)
		if err != nil {
			return nil, err
		}
		return item, nil
	case Slice:
		sub, err := qs.Slice(k)
		if err != nil {
			return nil, err
		}
		return sub, nil
	case Tuple, []int, []any, [2]int:
		return nil, fmt.Errorf("%w: tuple as index", ErrNotImplemented)
	default:
		if key != nil && reflect.TypeOf(key).Kind() == reflect.Array {
			return nil, fmt.Errorf("%w: %T as index", ErrNotImplemented, key)
		}
		return nil, fmt.Errorf("%w: index type %T", ErrInvalidArgument, key)
	}
}
