package regions

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// TransformFunc maps the values of one column onto another. It returns a new
// slice and leaves its input untouched.
type TransformFunc func(values []float64) []float64

// Link relates columns that may live in different containers. Forward maps
// the from columns onto the to columns; Inverse maps back.
type Link interface {
	FromIDs() []ColumnID
	ToIDs() []ColumnID
	Forward() TransformFunc
	Inverse() TransformFunc
}

// LinkGraph answers how columns relate across containers.
type LinkGraph interface {
	// Lookup returns the link governing id, if any.
	Lookup(id ColumnID) (Link, bool)
	// Equivalent reports whether a and b are interchangeable without a
	// transform. It is symmetric.
	Equivalent(a, b ColumnID) bool
}

// linkContains reports whether id is one of the identifiers governed by l.
func linkContains(l Link, id ColumnID) bool {
	return containsID(l.FromIDs(), id) || containsID(l.ToIDs(), id)
}

func containsID(ids []ColumnID, id ColumnID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// ColumnLink is a Link backed by plain functions.
type ColumnLink struct {
	from    []ColumnID
	to      []ColumnID
	forward TransformFunc
	inverse TransformFunc
}

// NewColumnLink creates a link from the from columns to the to columns.
// Either function may be nil when the direction is not derivable.
func NewColumnLink(from, to []ColumnID, forward, inverse TransformFunc) *ColumnLink {
	return &ColumnLink{
		from:    append([]ColumnID(nil), from...),
		to:      append([]ColumnID(nil), to...),
		forward: forward,
		inverse: inverse,
	}
}

// AffineLink links from to to with to = from*scale + offset.
func AffineLink(from, to ColumnID, scale, offset float64) (*ColumnLink, error) {
	if scale == 0 {
		return nil, fmt.Errorf("%w: affine scale is zero", ErrInvalidLink)
	}

	forward := func(values []float64) []float64 {
		out := append([]float64(nil), values...)
		floats.Scale(scale, out)
		floats.AddConst(offset, out)
		return out
	}
	inverse := func(values []float64) []float64 {
		out := append([]float64(nil), values...)
		floats.AddConst(-offset, out)
		floats.Scale(1/scale, out)
		return out
	}

	return NewColumnLink([]ColumnID{from}, []ColumnID{to}, forward, inverse), nil
}

func (l *ColumnLink) FromIDs() []ColumnID    { return l.from }
func (l *ColumnLink) ToIDs() []ColumnID      { return l.to }
func (l *ColumnLink) Forward() TransformFunc { return l.forward }
func (l *ColumnLink) Inverse() TransformFunc { return l.inverse }

// Links is an in-memory LinkGraph. Links are indexed by every identifier
// they govern. Equivalence classes are kept flat: every member points
// straight at its class root, so queries never modify the graph.
//
// Once built, a Links may be queried from multiple goroutines. AddLink and
// AddEquivalence must not run concurrently with queries.
type Links struct {
	links   []Link
	byID    map[ColumnID][]Link
	root    map[ColumnID]ColumnID
	members map[ColumnID][]ColumnID
}

// NewLinks creates an empty link graph.
func NewLinks() *Links {
	return &Links{
		byID:    make(map[ColumnID][]Link),
		root:    make(map[ColumnID]ColumnID),
		members: make(map[ColumnID][]ColumnID),
	}
}

// AddLink registers l. A link needs at least one from and one to column.
func (g *Links) AddLink(l Link) error {
	if l == nil {
		return fmt.Errorf("%w: nil link", ErrInvalidLink)
	}
	if len(l.FromIDs()) == 0 || len(l.ToIDs()) == 0 {
		return fmt.Errorf("%w: link needs from and to columns", ErrInvalidLink)
	}

	g.links = append(g.links, l)
	seen := make(map[ColumnID]bool)
	for _, ids := range [][]ColumnID{l.FromIDs(), l.ToIDs()} {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				g.byID[id] = append(g.byID[id], l)
			}
		}
	}
	return nil
}

// AddEquivalence records that a and b are interchangeable.
func (g *Links) AddEquivalence(a, b ColumnID) {
	ra, rb := g.find(a), g.find(b)
	if ra == rb {
		return
	}
	from, into := g.class(ra), g.class(rb)
	if len(from) > len(into) {
		ra, rb = rb, ra
		from, into = into, from
	}
	for _, id := range from {
		g.root[id] = rb
	}
	g.members[rb] = append(into, from...)
	delete(g.members, ra)
}

// Lookup returns the first registered link governing id.
func (g *Links) Lookup(id ColumnID) (Link, bool) {
	ls := g.byID[id]
	if len(ls) == 0 {
		return nil, false
	}
	return ls[0], true
}

// Equivalent reports whether a and b are in the same equivalence class.
// Every column is equivalent to itself.
func (g *Links) Equivalent(a, b ColumnID) bool {
	return a == b || g.find(a) == g.find(b)
}

// Len returns the number of registered links.
func (g *Links) Len() int {
	return len(g.links)
}

func (g *Links) find(id ColumnID) ColumnID {
	if r, ok := g.root[id]; ok {
		return r
	}
	return id
}

// class returns the members of the class rooted at r, r included.
func (g *Links) class(r ColumnID) []ColumnID {
	if m, ok := g.members[r]; ok {
		return m
	}
	return []ColumnID{r}
}
