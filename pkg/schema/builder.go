package schema

import (
	"fmt"
	"hash/fnv"
	"sort"
)

// IndexDefinitions returns the sortKey to IndexDefinition map for every
// collection in the schema, building and memoizing it on first access. The
// map is rebuilt from the current Collections on the next call after
// ClearCache.
func (s *Schema) IndexDefinitions() (map[string]map[string]IndexDefinition, error) {
	if s.cache != nil {
		return s.cache, nil
	}
	out := make(map[string]map[string]IndexDefinition, len(s.Collections))
	for _, c := range s.Collections {
		defs, err := buildCollectionIndexes(c)
		if err != nil {
			return nil, fmt.Errorf("schema: collection %q: %w", c.Name, err)
		}
		out[c.Name] = defs
	}
	s.cache = out
	return out, nil
}

// ClearCache invalidates the memoized index definitions, forcing the next
// call to IndexDefinitions to rebuild them from the current Collections.
func (s *Schema) ClearCache() {
	s.cache = nil
}

// buildCollectionIndexes derives the full sortKey to IndexDefinition map for
// one collection: the default path index, one single-column index per
// indexable+indexed field, and the user's declared composite indexes.
func buildCollectionIndexes(c Collection) (map[string]IndexDefinition, error) {
	defs := make(map[string]IndexDefinition)

	defs[DefaultSortKey] = IndexDefinition{SortKey: DefaultSortKey}

	for _, f := range c.Fields {
		if !f.Type.Indexable() || !f.Indexed {
			continue
		}
		defs[f.Name] = IndexDefinition{
			SortKey: f.Name,
			Fields:  []IndexField{fieldToIndexField(f)},
		}
	}

	for _, ci := range c.Indexes {
		if len(ci.Fields) == 0 {
			return nil, fmt.Errorf("composite index %q declares no fields", ci.Name)
		}
		fields := make([]IndexField, 0, len(ci.Fields))
		for _, name := range ci.Fields {
			f, ok := c.field(name)
			if !ok {
				return nil, fmt.Errorf("%w: composite index %q references field %q", ErrUnknownField, ci.Name, name)
			}
			if !f.Type.Indexable() {
				return nil, fmt.Errorf("composite index %q references non-indexable field %q", ci.Name, name)
			}
			fields = append(fields, fieldToIndexField(f))
		}
		defs[ci.Name] = IndexDefinition{SortKey: ci.Name, Fields: fields}
	}

	return defs, nil
}

func fieldToIndexField(f FieldDef) IndexField {
	return IndexField{Name: f.Name, Type: f.Type, Padding: f.Padding}
}

// Fingerprint hashes the structure of the schema (collection names, field
// names/types/indexed flags, composite index field orders) into an
// order-independent 32-bit value. Two schemas that declare the same
// structure in a different order produce the same fingerprint; any
// structural change produces a different one. Embedders can use this to
// detect when a stored index needs a full reindex.
func (s *Schema) Fingerprint() uint32 {
	lines := make([]string, 0, len(s.Collections)*4)
	for _, c := range s.Collections {
		for _, f := range c.Fields {
			lines = append(lines, fmt.Sprintf("field|%s|%s|%d|%t", c.Name, f.Name, f.Type, f.Indexed))
		}
		for _, ci := range c.Indexes {
			lines = append(lines, fmt.Sprintf("index|%s|%s|%v", c.Name, ci.Name, ci.Fields))
		}
	}
	sort.Strings(lines)

	h := fnv.New32a()
	for _, l := range lines {
		h.Write([]byte(l))
		h.Write([]byte{0})
	}
	return h.Sum32()
}
