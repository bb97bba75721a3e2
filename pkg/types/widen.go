package types

import "strings"

// Widen returns the least type both a and b can be represented as.
//
// Integral kinds widen along Byte < Short < Integer < Long, floating kinds along
// Float < Double. Null widens to any type. Containers of the same kind widen
// element-wise. The second result is false when no common type exists.
func Widen(a, b Descriptor) (Descriptor, bool) {
	switch {
	case a.kind == Null:
		return b, true
	case b.kind == Null:
		return a, true
	case a.Equal(b):
		return a, true
	case a.IsIntegral() && b.IsIntegral():
		if a.kind > b.kind {
			return a, true
		}
		return b, true
	case a.IsFloating() && b.IsFloating():
		return DoubleType, true
	case a.kind != b.kind || !a.IsContainer():
		return Descriptor{}, false
	}

	elem, ok := Widen(a.Elem(), b.Elem())
	if !ok {
		return Descriptor{}, false
	}
	if a.kind != Map {
		return Container(a.kind, Descriptor{}, elem), true
	}
	key, ok := Widen(a.Key(), b.Key())
	if !ok {
		return Descriptor{}, false
	}
	return MapOf(key, elem), true
}

// Accepts reports whether a value of type v can be held by type d without
// loss, i.e. Widen(d, v) yields d.
func (d Descriptor) Accepts(v Descriptor) bool {
	w, ok := Widen(d, v)
	return ok && w.Equal(d)
}

// kindAliases maps lower-case type names, including common SQL spellings,
// to kinds.
var kindAliases = map[string]Kind{
	"null":      Null,
	"boolean":   Boolean,
	"bool":      Boolean,
	"byte":      Byte,
	"tinyint":   Byte,
	"short":     Short,
	"smallint":  Short,
	"integer":   Integer,
	"int":       Integer,
	"long":      Long,
	"bigint":    Long,
	"float":     Float,
	"real":      Float,
	"double":    Double,
	"decimal":   Decimal,
	"numeric":   Decimal,
	"string":    String,
	"varchar":   String,
	"text":      String,
	"date":      Date,
	"timestamp": Timestamp,
	"array":     Array,
	"list":      Array,
	"set":       Set,
	"map":       Map,
}

// LookupKind resolves a type name case-insensitively.
func LookupKind(name string) (Kind, bool) {
	k, ok := kindAliases[strings.ToLower(name)]
	return k, ok
}
