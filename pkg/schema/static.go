package schema

import (
	"context"
	"sort"
)

// Static is an in-memory catalog over a fixed set of tables. It is safe for
// concurrent use once built.
type Static struct {
	byQualified map[string]*Table
	byName      map[string][]*Table
}

// NewStatic indexes the given tables. A later table with the same qualified
// name replaces an earlier one.
func NewStatic(tables ...*Table) *Static {
	s := &Static{
		byQualified: make(map[string]*Table, len(tables)),
		byName:      make(map[string][]*Table, len(tables)),
	}
	for _, t := range tables {
		s.byQualified[Fold(t.QualifiedName())] = t
	}
	for _, t := range s.byQualified {
		key := Fold(t.Name)
		s.byName[key] = append(s.byName[key], t)
	}
	return s
}

// Table implements Catalog.
func (s *Static) Table(_ context.Context, name string) (*Table, error) {
	if t, ok := s.byQualified[Fold(name)]; ok {
		return t, nil
	}

	schema, bare := SplitName(name)
	if schema != "" {
		return nil, &TableNotFoundError{Name: name}
	}
	candidates := s.byName[Fold(bare)]
	switch len(candidates) {
	case 0:
		return nil, &TableNotFoundError{Name: name}
	case 1:
		return candidates[0], nil
	default:
		names := make([]string, len(candidates))
		for i, t := range candidates {
			names[i] = t.QualifiedName()
		}
		sort.Strings(names)
		return nil, &AmbiguousTableError{Name: name, Candidates: names}
	}
}

// Tables returns all tables sorted by qualified name.
func (s *Static) Tables() []*Table {
	out := make([]*Table, 0, len(s.byQualified))
	for _, t := range s.byQualified {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QualifiedName() < out[j].QualifiedName()
	})
	return out
}
