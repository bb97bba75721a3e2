package term

import (
	"github.com/leapstack-labs/leapterm/pkg/types"
)

// Entry is one key/value pair of a map collection.
type Entry struct {
	Key   Term
	Value Term
}

// CollectionTerm holds an ordered group of child terms sharing a declared
// element type.
type CollectionTerm struct {
	typ types.Descriptor

	// inferred is the type implied by the children alone. When it differs from
	// typ (or there are no children) the canonical rendering carries a type
	// prefix so the declared type survives a round trip.
	inferred types.Descriptor

	elems []Term
	keys  []Term // maps only, parallel to elems
}

func (*CollectionTerm) sealed() {}

// Kind implements Term.
func (*CollectionTerm) Kind() Kind { return Collection }

// UnderlyingClass implements Term. The result is always a container
// descriptor: Array<T>, Set<T> or Map<K, V>.
func (c *CollectionTerm) UnderlyingClass() types.Descriptor { return c.typ }

// String implements Term.
func (c *CollectionTerm) String() string { return c.Render() }

// Container returns Array, Set or Map.
func (c *CollectionTerm) Container() types.Kind { return c.typ.Kind() }

// ElementType returns the declared element type (the value type for maps).
func (c *CollectionTerm) ElementType() types.Descriptor { return c.typ.Elem() }

// Len returns the number of elements or entries.
func (c *CollectionTerm) Len() int { return len(c.elems) }

// Elements returns a copy of the element terms. For maps these are the values.
func (c *CollectionTerm) Elements() []Term {
	return append([]Term(nil), c.elems...)
}

// Entries returns a copy of the key/value pairs of a map. It returns nil for
// arrays and sets.
func (c *CollectionTerm) Entries() []Entry {
	if c.keys == nil {
		return nil
	}
	entries := make([]Entry, len(c.elems))
	for i := range c.elems {
		entries[i] = Entry{Key: c.keys[i], Value: c.elems[i]}
	}
	return entries
}

// Children returns the child terms in order. For maps, keys and values
// alternate: k1, v1, k2, v2, ...
func (c *CollectionTerm) Children() []Term {
	return c.children()
}

func (c *CollectionTerm) children() []Term {
	if c.keys == nil {
		return append([]Term(nil), c.elems...)
	}
	out := make([]Term, 0, 2*len(c.elems))
	for i := range c.elems {
		out = append(out, c.keys[i], c.elems[i])
	}
	return out
}

// NewArray builds an ordered collection. elemHint may be the zero Descriptor
// when no type hint is available; the element type is then inferred from the
// elements, and an empty or all-NULL array fails with UnresolvedTypeError.
func NewArray(elemHint types.Descriptor, elems ...Term) (*CollectionTerm, error) {
	return newSequence(types.Array, elemHint, elems)
}

// NewSet builds a duplicate-free collection. See NewArray for hint handling.
func NewSet(elemHint types.Descriptor, elems ...Term) (*CollectionTerm, error) {
	return newSequence(types.Set, elemHint, elems)
}

// NewMap builds a key/value collection. Keys must be non-NULL scalars and
// must not repeat.
func NewMap(keyHint, valueHint types.Descriptor, entries ...Entry) (*CollectionTerm, error) {
	keys := make([]Term, len(entries))
	values := make([]Term, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
		values[i] = e.Value
	}
	if keyHint.IsValid() && (!keyHint.IsScalar() || keyHint.Kind() == types.Null) {
		return nil, &KeyTypeError{Key: keyHint}
	}

	keyType, keyInferred, err := resolveElements(types.Map, keyHint, keys, true)
	if err != nil {
		return nil, err
	}
	valueType, valueInferred, err := resolveElements(types.Map, valueHint, values, false)
	if err != nil {
		return nil, err
	}

	c := &CollectionTerm{
		typ:      types.MapOf(keyType, valueType),
		inferred: types.MapOf(keyInferred, valueInferred),
		elems:    values,
		keys:     keys,
	}
	if !c.typ.IsValid() || containsNull(c.typ) {
		return nil, &UnresolvedTypeError{Container: types.Map, Literal: c.renderBody()}
	}
	if err := checkDuplicates(types.Map, keys); err != nil {
		return nil, err
	}
	return c, nil
}

func newSequence(container types.Kind, elemHint types.Descriptor, elems []Term) (*CollectionTerm, error) {
	elems = append([]Term(nil), elems...)
	elemType, inferred, err := resolveElements(container, elemHint, elems, false)
	if err != nil {
		return nil, err
	}
	c := &CollectionTerm{
		typ:      types.Container(container, types.Descriptor{}, elemType),
		inferred: types.Container(container, types.Descriptor{}, inferred),
		elems:    elems,
	}
	if containsNull(c.typ) {
		return nil, &UnresolvedTypeError{Container: container, Literal: c.renderBody()}
	}
	if container == types.Set {
		if err := checkDuplicates(types.Set, elems); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// resolveElements determines the element type of a group of terms. It returns
// the declared type (the hint when present, otherwise the inferred type) and
// the type inferred from the terms alone. The inferred type has kind Null when
// the terms do not pin it down; callers treat a Null declared type as
// unresolved.
func resolveElements(container types.Kind, hint types.Descriptor, elems []Term, isKey bool) (types.Descriptor, types.Descriptor, error) {
	inferred := types.NullType
	for i, e := range elems {
		got := classOf(e)
		if isKey && (!got.IsScalar() || got.Kind() == types.Null) {
			return types.Descriptor{}, types.Descriptor{}, &ElementTypeError{
				Container: container, Index: i, Key: true, Literal: e.Render(),
				Expected: hint, Got: got,
			}
		}
		if hint.IsValid() && !hint.Accepts(got) {
			return types.Descriptor{}, types.Descriptor{}, &ElementTypeError{
				Container: container, Index: i, Key: isKey, Literal: e.Render(),
				Expected: hint, Got: got,
			}
		}
		w, ok := types.Widen(inferred, got)
		if !ok {
			return types.Descriptor{}, types.Descriptor{}, &ElementTypeError{
				Container: container, Index: i, Key: isKey, Literal: e.Render(),
				Expected: inferred, Got: got,
			}
		}
		inferred = w
	}

	if hint.IsValid() {
		return hint, inferred, nil
	}
	return inferred, inferred, nil
}

// containsNull reports whether a type is Null or a container whose element
// type could not be pinned down beyond Null.
func containsNull(d types.Descriptor) bool {
	switch {
	case d.Kind() == types.Null:
		return true
	case d.Kind() == types.Map:
		return containsNull(d.Key()) || containsNull(d.Elem())
	case d.IsContainer():
		return containsNull(d.Elem())
	default:
		return false
	}
}

func classOf(t Term) types.Descriptor {
	if t == nil {
		panic(&InvariantError{Reason: "nil child term"})
	}
	return t.UnderlyingClass()
}

func checkDuplicates(container types.Kind, terms []Term) error {
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		k := identity(t)
		if _, dup := seen[k]; dup {
			return &DuplicateElementError{Container: container, Literal: t.Render()}
		}
		seen[k] = struct{}{}
	}
	return nil
}

func identity(t Term) string {
	return Match(t,
		func(s *SimpleTerm) string { return s.key() },
		func(c *CollectionTerm) string { return c.Render() },
	)
}
