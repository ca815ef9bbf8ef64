// Package sorting expresses entity ordering as a logical property name and a
// direction, decoupled from any storage column. Each entity package declares
// a static Table of the property names it knows; resolving a name that is not
// in the table degrades to ascending order by identifier.
package sorting

import (
	"slices"
	"strings"
)

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// ParseDirection maps client input to a Direction. Anything that is not
// recognisably descending yields Ascending.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desc", "descending", "-":
		return Descending
	default:
		return Ascending
	}
}

// IsValid returns true if the direction is one of the defined constants.
func (d Direction) IsValid() bool {
	return d == Ascending || d == Descending
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	return string(d)
}

// Spec is the storage-agnostic sort request passed to repositories.
// The zero value means "default order".
type Spec struct {
	Property  string
	Direction Direction
}

// Key names a sortable property and knows how to compare two entities by it.
// Compare returns a negative number when a sorts before b in ascending order.
type Key[E any] struct {
	Name    string
	Compare func(a, b E) int
}

// Table is the static set of sortable properties of one entity type. The
// identifier key doubles as the fallback and the tie-breaker.
type Table[E any] struct {
	identifier Key[E]
	keys       map[string]Key[E]
}

// NewTable builds a Table. The identifier key is always resolvable by its
// own name.
func NewTable[E any](identifier Key[E], keys ...Key[E]) Table[E] {
	m := make(map[string]Key[E], len(keys)+1)
	m[identifier.Name] = identifier
	for _, k := range keys {
		m[k.Name] = k
	}
	return Table[E]{identifier: identifier, keys: m}
}

// Has reports whether name is a known property.
func (t Table[E]) Has(name string) bool {
	_, ok := t.keys[name]
	return ok
}

// Names returns the known property names in lexical order.
func (t Table[E]) Names() []string {
	names := make([]string, 0, len(t.keys))
	for n := range t.keys {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Resolve returns the Order for a property name and direction. An unknown
// name resolves to the identifier in ascending order, whatever dir says.
func (t Table[E]) Resolve(name string, dir Direction) Order[E] {
	key, ok := t.keys[name]
	if !ok {
		return Order[E]{key: t.identifier, dir: Ascending, tiebreak: t.identifier}
	}
	if !dir.IsValid() {
		dir = Ascending
	}
	return Order[E]{key: key, dir: dir, tiebreak: t.identifier}
}

// ResolveSpec is Resolve for a Spec.
func (t Table[E]) ResolveSpec(s Spec) Order[E] {
	return t.Resolve(s.Property, s.Direction)
}

// Order is a resolved sort order.
type Order[E any] struct {
	key      Key[E]
	dir      Direction
	tiebreak Key[E]
}

// Property returns the resolved property name.
func (o Order[E]) Property() string { return o.key.Name }

// Direction returns the resolved direction.
func (o Order[E]) Direction() Direction { return o.dir }

// Spec returns the order as a Spec suitable for a repository call.
func (o Order[E]) Spec() Spec {
	return Spec{Property: o.key.Name, Direction: o.dir}
}

// Compare orders a and b by the resolved key. Ties fall back to identifier
// ascending regardless of direction.
func (o Order[E]) Compare(a, b E) int {
	if o.key.Compare != nil {
		c := o.key.Compare(a, b)
		if o.dir == Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	if o.tiebreak.Compare == nil {
		return 0
	}
	return o.tiebreak.Compare(a, b)
}

// Sort sorts s in place, stable across equal keys.
func (o Order[E]) Sort(s []E) {
	slices.SortStableFunc(s, o.Compare)
}
