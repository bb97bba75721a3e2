package term

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapterm/pkg/types"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrUnresolvedType is wrapped by UnresolvedTypeError.
	ErrUnresolvedType = errors.New("unresolved type")

	// ErrInvariantViolation is wrapped by InvariantError.
	ErrInvariantViolation = errors.New("invariant violation")
)

// UnresolvedTypeError is returned when the element type of a collection
// cannot be determined, e.g. an empty literal with no type hint.
type UnresolvedTypeError struct {
	Container types.Kind // Array, Set, Map, or Invalid when the braces are ambiguous
	Literal   string
	Hint      types.Descriptor // set when a hint was given but did not apply
}

func (e *UnresolvedTypeError) Error() string {
	what := "collection"
	if e.Container != types.Invalid {
		what = e.Container.String()
	}
	if e.Hint.IsValid() {
		return fmt.Sprintf("unresolved type: cannot determine element type of %s %s: type hint %s does not match its brackets",
			what, e.Literal, e.Hint)
	}
	return fmt.Sprintf("unresolved type: cannot determine element type of %s %s without a type hint", what, e.Literal)
}

func (e *UnresolvedTypeError) Unwrap() error { return ErrUnresolvedType }

// ElementTypeError is returned when a child term does not fit the declared
// element type of its collection, or is incompatible with its siblings.
type ElementTypeError struct {
	Container types.Kind
	Index     int
	Key       bool // the offending term is a map key
	Literal   string
	Expected  types.Descriptor
	Got       types.Descriptor
}

func (e *ElementTypeError) Error() string {
	role := "element"
	if e.Key {
		role = "key"
	}
	expected := e.Expected.String()
	if e.Key && !e.Expected.IsValid() {
		expected = "a non-NULL scalar"
	}
	return fmt.Sprintf("%s %s %d (%s) has type %s, expected %s",
		e.Container, role, e.Index, e.Literal, e.Got, expected)
}

// KeyTypeError is returned when a map is declared with a key type that no
// key term can have.
type KeyTypeError struct {
	Key types.Descriptor
}

func (e *KeyTypeError) Error() string {
	return fmt.Sprintf("Map key type %s is not a non-NULL scalar", e.Key)
}

// DuplicateElementError is returned when a set element or map key repeats.
type DuplicateElementError struct {
	Container types.Kind
	Literal   string
}

func (e *DuplicateElementError) Error() string {
	if e.Container == types.Map {
		return fmt.Sprintf("duplicate map key %s", e.Literal)
	}
	return fmt.Sprintf("duplicate %s element %s", e.Container, e.Literal)
}

// ValueError is returned when literal text cannot be converted to the
// requested scalar type.
type ValueError struct {
	Type    types.Descriptor
	Literal string
	Err     error
}

func (e *ValueError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s literal %q: %v", e.Type, e.Literal, e.Err)
	}
	return fmt.Sprintf("invalid %s literal %q", e.Type, e.Literal)
}

func (e *ValueError) Unwrap() error { return e.Err }

// InvariantError signals a term whose tag and variant disagree. It is a
// defect in term construction and is raised by panic, never returned.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("term invariant violation: %s", e.Reason)
}

func (e *InvariantError) Unwrap() error { return ErrInvariantViolation }
