// Package frontmatter parses and renders the YAML-subset header block that
// precedes a markdown document's body, the on-disk form pkg/docstore's
// bridge-backed collections use for "md"-format content.
//
// Grammar:
//
//	---
//	title: Hello
//	rank: 1
//	draft: false
//	tags:
//	  - launch
//	  - docs
//	inline_list: [a, b, c]
//	metadata:
//	  author: alice
//	  priority: 2
//	---
//
// Scalars are unquoted strings, integers, or booleans. Lists hold only
// strings; objects (one level of nesting) hold only scalar values. Single-
// and double-quoted strings are supported for values containing special
// characters (including '#').
//
// The parser is deliberately strict: a single space follows every ':',
// inline lists separate items with ", ", and there is no support for
// multi-line strings, anchors, aliases, flow mappings, floats, or nested
// lists/objects. ParseBytes's return values borrow from the input slice;
// callers that need owned data (as document.go's ToDocument does) must
// copy out of it themselves.
package frontmatter

import (
	"bytes"
	"errors"
)

// ScalarKind distinguishes scalar YAML values inside document frontmatter.
type ScalarKind uint8

// ScalarKind values enumerate the YAML scalar subset we accept.
const (
	ScalarString ScalarKind = iota
	ScalarInt
	ScalarBool
)

// Scalar is one of the three restricted scalar kinds. For ScalarString,
// Bytes is borrowed from the parser's input.
type Scalar struct {
	Kind  ScalarKind
	Bytes []byte // For ScalarString: points into input data (borrowed)
	Int   int64  // For ScalarInt
	Bool  bool   // For ScalarBool
}

// String returns the string value, allocating a new string.
// Returns empty string if not a string scalar.
func (s Scalar) String() string {
	if s.Kind != ScalarString {
		return ""
	}

	return string(s.Bytes)
}

// ValueKind describes the supported frontmatter shapes.
type ValueKind uint8

// ValueKind values enumerate the supported top-level YAML shapes.
const (
	ValueScalar ValueKind = iota
	ValueList
	ValueObject
)

// Value represents a validated frontmatter value in the supported YAML subset.
// All []byte fields point into the original input data (borrowed).
type Value struct {
	Kind   ValueKind
	Scalar Scalar
	List   [][]byte // Each item points into input data
	Object []ObjectEntry
}

// ObjectEntry is a key-value pair in an object value.
type ObjectEntry struct {
	Key   []byte // Points into input data
	Value Scalar
}

// Entry is a top-level frontmatter key-value pair.
type Entry struct {
	Key   []byte // Points into input data
	Value Value
}

// Frontmatter holds parsed frontmatter entries.
// All data is borrowed from the input buffer and valid only while the input lives.
type Frontmatter struct {
	entries []Entry
}

// Len returns the number of entries.
func (fm *Frontmatter) Len() int {
	return len(fm.entries)
}

// EntriesView returns the underlying entries slice for iteration.
// The returned slice is borrowed - do not modify or retain beyond the
// lifetime of the Frontmatter (or the input buffer it was parsed from).
func (fm *Frontmatter) EntriesView() []Entry {
	return fm.entries
}

// Get returns the Value for key, or (Value{}, false) if key is missing.
func (fm *Frontmatter) Get(key []byte) (Value, bool) {
	for i := range fm.entries {
		if bytes.Equal(fm.entries[i].Key, key) {
			return fm.entries[i].Value, true
		}
	}

	return Value{}, false
}

var (
	errEmptyKey      = errors.New("empty key")
	errKeyWhitespace = errors.New("key contains whitespace")
	errKeyInvalid    = errors.New("key contains invalid character")
	errNilValue      = errors.New("nil value")
)

func validateKey(key []byte) error {
	if len(key) == 0 {
		return errEmptyKey
	}

	if bytes.IndexByte(key, ' ') != -1 || bytes.IndexByte(key, '\t') != -1 {
		return errKeyWhitespace
	}

	if bytes.IndexByte(key, ':') != -1 || bytes.IndexByte(key, '\n') != -1 || bytes.IndexByte(key, '\r') != -1 {
		return errKeyInvalid
	}

	return nil
}

// Set adds or updates an entry. The key is copied, value is dereferenced and stored.
// Returns an error for empty/whitespace keys or nil values.
// This is used for marshaling where we construct owned values.
func (fm *Frontmatter) Set(key []byte, value *Value) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if value == nil {
		return errNilValue
	}

	keyBytes := append([]byte(nil), key...)
	for i := range fm.entries {
		if bytes.Equal(fm.entries[i].Key, keyBytes) {
			fm.entries[i].Value = *value

			return nil
		}
	}

	fm.entries = append(fm.entries, Entry{Key: keyBytes, Value: *value})

	return nil
}

// MustSet is like Set but panics on error.
func (fm *Frontmatter) MustSet(key []byte, value *Value) {
	if err := fm.Set(key, value); err != nil {
		panic(err)
	}
}

// StringValue creates a Value with a string scalar (owned copy).
func StringValue(s string) *Value {
	return &Value{Kind: ValueScalar, Scalar: Scalar{Kind: ScalarString, Bytes: []byte(s)}}
}

// IntValue creates a Value with an integer scalar.
func IntValue(i int64) *Value {
	return &Value{Kind: ValueScalar, Scalar: Scalar{Kind: ScalarInt, Int: i}}
}

// BoolValue returns a Value with a bool scalar.
func BoolValue(b bool) *Value {
	return &Value{Kind: ValueScalar, Scalar: Scalar{Kind: ScalarBool, Bool: b}}
}

// StringListValue creates a Value with a string list (owned copies).
func StringListValue(items []string) *Value {
	list := make([][]byte, len(items))
	for i, item := range items {
		list[i] = []byte(item)
	}

	return &Value{Kind: ValueList, List: list}
}
