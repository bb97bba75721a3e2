package validate

import (
	"fmt"

	"github.com/leapstack-labs/leapterm/pkg/types"
)

// UnknownColumnError is returned when an assignment names a column the table
// does not have.
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("table %s has no column %s", e.Table, e.Column)
}

// UnsupportedColumnError is returned for columns whose native type has no
// term equivalent.
type UnsupportedColumnError struct {
	Table      string
	Column     string
	NativeType string
}

func (e *UnsupportedColumnError) Error() string {
	return fmt.Sprintf("column %s.%s has unsupported type %s", e.Table, e.Column, e.NativeType)
}

// TypeMismatchError is returned when a literal cannot be stored in its
// target column. Path locates nested elements: [2], ['k'], or key 'k'.
type TypeMismatchError struct {
	Column   string
	Path     string
	Literal  string
	Expected types.Descriptor
	Got      types.Descriptor
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("column %s%s: literal %s has type %s, expected %s", e.Column, e.Path, e.Literal, e.Got, e.Expected)
}

// NullabilityError is returned when NULL is assigned to a NOT NULL column.
type NullabilityError struct {
	Column string
}

func (e *NullabilityError) Error() string {
	return fmt.Sprintf("column %s: NULL assigned to a NOT NULL column", e.Column)
}

// DuplicateAssignmentError is returned when one statement row assigns the
// same column twice.
type DuplicateAssignmentError struct {
	Column string
}

func (e *DuplicateAssignmentError) Error() string {
	return fmt.Sprintf("column %s assigned more than once", e.Column)
}
