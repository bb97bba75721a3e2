// Package term implements the value model for literals that appear on the
// right-hand side of statement assignments (SET col = <term>, INSERT ... VALUES).
//
// A Term is one of exactly two variants:
//
//	*SimpleTerm      a single scalar value (Integer, String, Date, ...)
//	*CollectionTerm  an ordered group of child terms (Array, Set, Map)
//
// The variant set is closed: Term carries an unexported marker method, so the
// only implementations are the two in this package. Use Match for exhaustive
// dispatch over the variants.
//
// Terms are immutable once constructed. They hold no connections or other
// resources, and any number of goroutines may read the same term tree.
package term

import (
	"fmt"

	"github.com/leapstack-labs/leapterm/pkg/types"
)

// Kind tags the variant of a term.
type Kind int

// Kind constants.
const (
	Simple     Kind = 1
	Collection Kind = 2
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Simple:
		return "simple"
	case Collection:
		return "collection"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Term is a value or value group that appears in a statement.
type Term interface {
	// Kind returns the variant tag. It always agrees with the concrete type.
	Kind() Kind

	// UnderlyingClass returns the type the term must be bound to: a scalar
	// descriptor for simple terms, a container descriptor naming the element
	// type for collections.
	UnderlyingClass() types.Descriptor

	// Render returns the canonical literal text of the term. Parsing the
	// result yields a term with the same kind and underlying class.
	Render() string

	// String is equivalent to Render.
	String() string

	sealed()
}

// Match dispatches on the variant of t. Exactly one of the callbacks runs.
//
// A nil term, or any value that is neither variant, is a construction defect
// and panics with an *InvariantError.
func Match[R any](t Term, simple func(*SimpleTerm) R, collection func(*CollectionTerm) R) R {
	switch v := t.(type) {
	case *SimpleTerm:
		if v == nil {
			break
		}
		return simple(v)
	case *CollectionTerm:
		if v == nil {
			break
		}
		return collection(v)
	}
	panic(&InvariantError{Reason: fmt.Sprintf("term %T is not a constructed variant", t)})
}

// Walk visits t and its descendants depth-first, children in order.
// Returning false from fn skips the children of the current term.
func Walk(t Term, fn func(depth int, t Term) bool) {
	walk(t, 0, fn)
}

func walk(t Term, depth int, fn func(int, Term) bool) {
	if !fn(depth, t) {
		return
	}
	if c, ok := t.(*CollectionTerm); ok {
		for _, child := range c.children() {
			walk(child, depth+1, fn)
		}
	}
}
