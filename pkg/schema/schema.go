// Package schema models the user-declared collection schema and derives
// the set of index definitions each collection needs.
package schema

import (
	"fmt"

	"github.com/inkdex/inkdex/pkg/keycodec"
)

// FieldType is the declared type of a schema field. It determines both how
// the field's values are encoded by pkg/keycodec and whether the field can
// ever be indexed.
type FieldType int

const (
	FieldString FieldType = iota
	FieldNumber
	FieldBoolean
	FieldDatetime
	FieldReference
	FieldObject
	FieldRichText
)

// Indexable reports whether fields of this type can appear in an index
// definition. Object and rich-text fields never can.
func (t FieldType) Indexable() bool {
	switch t {
	case FieldString, FieldNumber, FieldBoolean, FieldDatetime, FieldReference:
		return true
	default:
		return false
	}
}

// FieldDef declares one field of a collection.
type FieldDef struct {
	Name string
	Type FieldType
	// Indexed, when false, opts an otherwise-indexable field out of the
	// default single-column index the builder would otherwise create for
	// it. Has no effect on fields whose Type is not Indexable.
	Indexed bool
	// Padding overrides the default numeric padding for FieldNumber fields.
	Padding *keycodec.NumberPadding
	// IsBody marks the field that holds a document's markdown body. At most
	// one field per collection may set this; it has no effect unless the
	// collection's Format is "md", in which case docstore reshapes it to
	// and from the reserved "$_body" storage key.
	IsBody bool
}

// CompositeIndex declares a user-requested multi-field index, naming its
// fields in the order they should be compared.
type CompositeIndex struct {
	Name   string
	Fields []string
}

// Collection declares one content collection: its set of fields and any
// composite indexes requested beyond the defaults the builder derives
// automatically.
type Collection struct {
	Name    string
	Fields  []FieldDef
	Indexes []CompositeIndex

	// RootPath is the logical path prefix every document in this collection
	// is stored under. docstore strips it (plus a leading slash) to derive
	// a document's "_relativePath" annotation on Get.
	RootPath string
	// Format names the on-disk content format the bridge stores this
	// collection's documents in. "md" enables the frontmatter/body
	// reshape; any other value (including empty) stores fields as-is.
	Format string
	// Templates lists the valid "_template" discriminator values for a
	// union collection. Empty means the collection has a single implicit
	// template equal to its own Name, and documents need not carry a
	// "_template" field at all.
	Templates []string
}

func (c Collection) field(name string) (FieldDef, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// BodyField returns the field marked IsBody, if the collection declares one.
func (c Collection) BodyField() (FieldDef, bool) {
	for _, f := range c.Fields {
		if f.IsBody {
			return f, true
		}
	}
	return FieldDef{}, false
}

// DefaultSortKey is the sort key every collection carries implicitly,
// ordering documents by their logical path with no other fields.
const DefaultSortKey = "__filepath__"

// IndexField is one field of a resolved IndexDefinition, carrying enough of
// the FieldDef to drive encoding.
type IndexField struct {
	Name    string
	Type    FieldType
	Padding *keycodec.NumberPadding
}

// IndexDefinition is a resolved, ordered list of fields that make up one
// index's composite key, identified within its collection by a sort key
// name.
type IndexDefinition struct {
	SortKey string
	Fields  []IndexField
}

// Schema holds every collection a document store knows about.
type Schema struct {
	Collections []Collection

	cache map[string]map[string]IndexDefinition
}

// New builds a Schema from the given collections.
func New(collections ...Collection) *Schema {
	return &Schema{Collections: collections}
}

func (s *Schema) Collection(name string) (Collection, bool) {
	for _, c := range s.Collections {
		if c.Name == name {
			return c, true
		}
	}
	return Collection{}, false
}

// ErrUnknownCollection is returned when a collection name has no matching
// declaration in the schema.
var ErrUnknownCollection = fmt.Errorf("schema: unknown collection")

// ErrUnknownField is returned when a composite index names a field the
// collection does not declare.
var ErrUnknownField = fmt.Errorf("schema: unknown field")
