package queryset

type refState uint8

const (
	refAbsent refState = iota
	refUnresolved
	refResolved
)

// Ref is a reference field. It is either absent, unresolved (holding the
// URL of another resource) or resolved (holding that resource's display
// name). The zero Ref is absent.
type Ref struct {
	value string
	state refState
}

// NewRef returns an unresolved reference to url. An empty url gives an
// absent Ref.
func NewRef(url string) Ref {
	if url == "" {
		return Ref{}
	}
	return Ref{value: url, state: refUnresolved}
}

// ResolvedRef returns a reference that is already resolved to name.
func ResolvedRef(name string) Ref {
	return Ref{value: name, state: refResolved}
}

// IsAbsent reports whether the reference points nowhere.
func (r Ref) IsAbsent() bool { return r.state == refAbsent }

// IsResolved reports whether the reference holds a display name.
func (r Ref) IsResolved() bool { return r.state == refResolved }

// IsUnresolved reports whether the reference holds a URL.
func (r Ref) IsUnresolved() bool { return r.state == refUnresolved }

// URL returns the referenced URL, or "" unless unresolved.
func (r Ref) URL() string {
	if r.state != refUnresolved {
		return ""
	}
	return r.value
}

// Name returns the resolved display name, or "" unless resolved.
func (r Ref) Name() string {
	if r.state != refResolved {
		return ""
	}
	return r.value
}

// Resolve returns a resolved copy of r holding name. Resolved and absent
// references are terminal and returned unchanged.
func (r Ref) Resolve(name string) Ref {
	if r.state != refUnresolved {
		return r
	}
	return ResolvedRef(name)
}

// String returns the name when resolved, the URL when unresolved and ""
// when absent.
func (r Ref) String() string {
	return r.value
}
