package schema

import "time"

// Kind discriminates the tagged union carried by Value. Object and RichText
// field values are never indexed, so Value only needs a scalar/list/map
// split deep enough to represent them for storage; the index builder only
// ever looks at the scalar kinds.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindDatetime
	KindReference
	KindList
	KindMap
)

// Value is a tagged union of the payload types a document field can hold.
// It mirrors the frontmatter package's Scalar/Value split: a single struct
// with one field populated per Kind, rather than an interface{}, so that
// conversion at the schema boundary is explicit and exhaustive.
type Value struct {
	Kind Kind

	Str  string
	Num  float64
	Bool bool
	Time time.Time
	List []Value
	Map  map[string]Value
}

func String(s string) Value        { return Value{Kind: KindString, Str: s} }
func Number(n float64) Value       { return Value{Kind: KindNumber, Num: n} }
func Bool(b bool) Value            { return Value{Kind: KindBool, Bool: b} }
func Datetime(t time.Time) Value   { return Value{Kind: KindDatetime, Time: t} }
func Reference(path string) Value  { return Value{Kind: KindReference, Str: path} }
func List(items []Value) Value     { return Value{Kind: KindList, List: items} }
func Map(m map[string]Value) Value { return Value{Kind: KindMap, Map: m} }

// Indexable reports whether a value of this kind can participate in a
// sortable index. Lists and maps (object/rich-text fields) never can.
func (v Value) Indexable() bool {
	switch v.Kind {
	case KindString, KindNumber, KindBool, KindDatetime, KindReference:
		return true
	default:
		return false
	}
}

// Document is a field-name to value mapping for a single content record,
// plus its logical path (the final, disambiguating component of every
// composite index key).
type Document struct {
	Path   string
	Fields map[string]Value
}
