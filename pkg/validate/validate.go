// Package validate checks statement terms against the columns they target.
//
// A simple term fits a scalar column when its type widens to the column type.
// Integral literals may also narrow to a smaller integral column when the
// value is in range, may be stored in decimal columns, and may be stored in
// floating columns when the value is exactly representable there. A
// collection term fits a container column of the same kind whose element
// (and key) types fit recursively. NULL needs a nullable column at the top
// level; elements and values inside collections may always be NULL, whatever
// their declared type.
package validate

import (
	"errors"
	"log/slog"
	"math/bits"
	"strconv"

	"github.com/leapstack-labs/leapterm/pkg/schema"
	"github.com/leapstack-labs/leapterm/pkg/term"
	"github.com/leapstack-labs/leapterm/pkg/types"
)

// Validator checks assignments against table metadata.
type Validator struct {
	logger *slog.Logger
}

// New returns a Validator. A nil logger discards output.
func New(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Validator{logger: logger}
}

// CheckAssignment validates one assignment.
func (v *Validator) CheckAssignment(table *schema.Table, a term.Assignment) error {
	col, ok := table.Column(a.Column)
	if !ok {
		return &UnknownColumnError{Table: table.QualifiedName(), Column: a.Column}
	}
	if !col.Supported() {
		return &UnsupportedColumnError{Table: table.QualifiedName(), Column: col.Name, NativeType: col.NativeType}
	}

	if s, ok := a.Value.(*term.SimpleTerm); ok && s.IsNull() {
		if !col.Nullable {
			return &NullabilityError{Column: col.Name}
		}
		return nil
	}
	return checkTerm(col.Name, "", col.Type, a.Value)
}

// Check validates every assignment of one statement row and returns all
// failures joined.
func (v *Validator) Check(table *schema.Table, assignments []term.Assignment) error {
	var errs []error
	seen := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		key := a.Column
		if col, ok := table.Column(a.Column); ok {
			key = col.Name
		}
		if seen[key] {
			errs = append(errs, &DuplicateAssignmentError{Column: a.Column})
			continue
		}
		seen[key] = true

		if err := v.CheckAssignment(table, a); err != nil {
			v.logger.Debug("assignment rejected",
				slog.String("table", table.QualifiedName()),
				slog.String("column", a.Column),
				slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func checkTerm(column, path string, expected types.Descriptor, t term.Term) error {
	return term.Match(t,
		func(s *term.SimpleTerm) error {
			if path != "" && s.IsNull() {
				return nil
			}
			if fitsScalar(expected, s) {
				return nil
			}
			return mismatch(column, path, expected, t)
		},
		func(c *term.CollectionTerm) error {
			got := c.UnderlyingClass()
			if expected.Kind() != got.Kind() {
				return mismatch(column, path, expected, t)
			}
			if c.Len() == 0 {
				if expected.Accepts(got) {
					return nil
				}
				return mismatch(column, path, expected, t)
			}

			if got.Kind() != types.Map {
				for i, e := range c.Elements() {
					if err := checkTerm(column, path+"["+strconv.Itoa(i)+"]", expected.Elem(), e); err != nil {
						return err
					}
				}
				return nil
			}
			for _, e := range c.Entries() {
				key := e.Key.Render()
				if err := checkTerm(column, path+" key "+key, expected.Key(), e.Key); err != nil {
					return err
				}
				if err := checkTerm(column, path+"["+key+"]", expected.Elem(), e.Value); err != nil {
					return err
				}
			}
			return nil
		},
	)
}

func fitsScalar(expected types.Descriptor, s *term.SimpleTerm) bool {
	got := s.UnderlyingClass()
	switch {
	case !expected.IsScalar():
		return false
	case got.Kind() == types.Null, expected.Accepts(got):
		return true
	case got.IsIntegral() && expected.IsIntegral():
		v, _ := s.Int64()
		return term.FitsIntegral(expected.Kind(), v)
	case got.IsIntegral() && expected.IsFloating():
		v, _ := s.Int64()
		return exactInFloat(v, significandBits[expected.Kind()])
	case got.IsIntegral():
		return expected.Kind() == types.Decimal
	default:
		return false
	}
}

var significandBits = map[types.Kind]int{
	types.Float:  24,
	types.Double: 53,
}

// exactInFloat reports whether v survives conversion to a binary float with
// the given significand width.
func exactInFloat(v int64, width int) bool {
	u := uint64(v)
	if v < 0 {
		u = -u
	}
	if u == 0 {
		return true
	}
	u >>= bits.TrailingZeros64(u)
	return bits.Len64(u) <= width
}

func mismatch(column, path string, expected types.Descriptor, t term.Term) error {
	return &TypeMismatchError{
		Column:   column,
		Path:     path,
		Literal:  t.Render(),
		Expected: expected,
		Got:      t.UnderlyingClass(),
	}
}
