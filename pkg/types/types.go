// Package types defines the value classes a statement term can resolve to.
//
// A Descriptor is either a scalar (Integer, String, Date, ...) or a container
// (Array, Set, Map) carrying its element type. Descriptors are immutable values
// and safe to share between goroutines.
package types

import "strings"

// Kind identifies a value class.
type Kind int

// Kind constants. Invalid is the zero value and never describes a real term.
const (
	Invalid Kind = iota
	Null
	Boolean
	Byte
	Short
	Integer
	Long
	Float
	Double
	Decimal
	String
	Date
	Timestamp
	Array
	Set
	Map
)

var kindNames = map[Kind]string{
	Invalid:   "Invalid",
	Null:      "Null",
	Boolean:   "Boolean",
	Byte:      "Byte",
	Short:     "Short",
	Integer:   "Integer",
	Long:      "Long",
	Float:     "Float",
	Double:    "Double",
	Decimal:   "Decimal",
	String:    "String",
	Date:      "Date",
	Timestamp: "Timestamp",
	Array:     "Array",
	Set:       "Set",
	Map:       "Map",
}

// String returns the display name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Invalid"
}

// IsContainer returns true for Array, Set and Map.
func (k Kind) IsContainer() bool {
	return k == Array || k == Set || k == Map
}

// Descriptor describes the concrete type a term must be bound to.
type Descriptor struct {
	kind Kind
	elem *Descriptor
	key  *Descriptor
}

// Scalar descriptors.
var (
	NullType      = Descriptor{kind: Null}
	BooleanType   = Descriptor{kind: Boolean}
	ByteType      = Descriptor{kind: Byte}
	ShortType     = Descriptor{kind: Short}
	IntegerType   = Descriptor{kind: Integer}
	LongType      = Descriptor{kind: Long}
	FloatType     = Descriptor{kind: Float}
	DoubleType    = Descriptor{kind: Double}
	DecimalType   = Descriptor{kind: Decimal}
	StringType    = Descriptor{kind: String}
	DateType      = Descriptor{kind: Date}
	TimestampType = Descriptor{kind: Timestamp}
)

// Scalar returns the descriptor for a scalar kind.
// It returns the zero Descriptor for container and invalid kinds.
func Scalar(k Kind) Descriptor {
	if k == Invalid || k.IsContainer() {
		return Descriptor{}
	}
	return Descriptor{kind: k}
}

// ArrayOf returns an ordered collection descriptor.
func ArrayOf(elem Descriptor) Descriptor {
	return Descriptor{kind: Array, elem: &elem}
}

// SetOf returns an unordered, duplicate-free collection descriptor.
func SetOf(elem Descriptor) Descriptor {
	return Descriptor{kind: Set, elem: &elem}
}

// MapOf returns a key/value collection descriptor.
func MapOf(key, value Descriptor) Descriptor {
	return Descriptor{kind: Map, key: &key, elem: &value}
}

// Container builds a container descriptor of kind k. For maps, key is used
// as the key type; it is ignored for arrays and sets.
func Container(k Kind, key, elem Descriptor) Descriptor {
	switch k {
	case Array:
		return ArrayOf(elem)
	case Set:
		return SetOf(elem)
	case Map:
		return MapOf(key, elem)
	default:
		return Descriptor{}
	}
}

// Kind returns the descriptor's kind.
func (d Descriptor) Kind() Kind { return d.kind }

// IsValid reports whether d describes a real type.
func (d Descriptor) IsValid() bool {
	switch {
	case d.kind == Invalid:
		return false
	case d.kind == Map:
		return d.key != nil && d.key.IsValid() && d.elem != nil && d.elem.IsValid()
	case d.kind.IsContainer():
		return d.elem != nil && d.elem.IsValid()
	default:
		return true
	}
}

// IsScalar reports whether d is a single-value type.
func (d Descriptor) IsScalar() bool {
	return d.kind != Invalid && !d.kind.IsContainer()
}

// IsContainer reports whether d is a collection type.
func (d Descriptor) IsContainer() bool {
	return d.kind.IsContainer()
}

// IsIntegral reports whether d is Byte, Short, Integer or Long.
func (d Descriptor) IsIntegral() bool {
	return d.kind >= Byte && d.kind <= Long
}

// IsFloating reports whether d is Float or Double.
func (d Descriptor) IsFloating() bool {
	return d.kind == Float || d.kind == Double
}

// IsNumeric reports whether d is an integral, floating or decimal type.
func (d Descriptor) IsNumeric() bool {
	return d.IsIntegral() || d.IsFloating() || d.kind == Decimal
}

// Elem returns the element type of a container (the value type for maps).
// It returns the zero Descriptor for scalars.
func (d Descriptor) Elem() Descriptor {
	if d.elem == nil {
		return Descriptor{}
	}
	return *d.elem
}

// Key returns the key type of a map, or the zero Descriptor.
func (d Descriptor) Key() Descriptor {
	if d.key == nil {
		return Descriptor{}
	}
	return *d.key
}

// Equal reports structural equality.
func (d Descriptor) Equal(o Descriptor) bool {
	if d.kind != o.kind {
		return false
	}
	switch d.kind {
	case Map:
		return d.Key().Equal(o.Key()) && d.Elem().Equal(o.Elem())
	case Array, Set:
		return d.Elem().Equal(o.Elem())
	default:
		return true
	}
}

// String renders the descriptor for diagnostics: Integer, Array<String>,
// Map<String, Integer>.
func (d Descriptor) String() string {
	var sb strings.Builder
	d.write(&sb, Kind.String)
	return sb.String()
}

// SQL renders the descriptor in the upper-case spelling accepted by the
// literal grammar: INTEGER, ARRAY<STRING>, MAP<STRING, INTEGER>.
func (d Descriptor) SQL() string {
	var sb strings.Builder
	d.write(&sb, func(k Kind) string { return strings.ToUpper(k.String()) })
	return sb.String()
}

func (d Descriptor) write(sb *strings.Builder, name func(Kind) string) {
	sb.WriteString(name(d.kind))
	switch d.kind {
	case Array, Set:
		sb.WriteByte('<')
		d.Elem().write(sb, name)
		sb.WriteByte('>')
	case Map:
		sb.WriteByte('<')
		d.Key().write(sb, name)
		sb.WriteString(", ")
		d.Elem().write(sb, name)
		sb.WriteByte('>')
	}
}
