package docstore

import (
	"strings"

	"github.com/inkdex/inkdex/pkg/schema"
)

// bodyFieldKey is the reserved storage key a collection's IsBody field is
// renamed to when its Format is "md", keeping the body's own field name
// available for frontmatter round-tripping without colliding with it.
const bodyFieldKey = "$_body"

// reshapeForStorage renames coll's body field (if any, and only for "md"
// collections) to the reserved bodyFieldKey. Index key derivation runs
// against the document's original field names before this is applied, so
// it only affects what gets written to the primary record.
func reshapeForStorage(coll schema.Collection, fields map[string]schema.Value) map[string]schema.Value {
	body, ok := coll.BodyField()
	if !ok || coll.Format != "md" {
		return fields
	}

	v, has := fields[body.Name]
	if !has {
		return fields
	}

	out := make(map[string]schema.Value, len(fields))
	for k, fv := range fields {
		if k == body.Name {
			continue
		}
		out[k] = fv
	}
	out[bodyFieldKey] = v
	return out
}

// reshapeForRead reverses reshapeForStorage, renaming bodyFieldKey back to
// the collection's declared body field name.
func reshapeForRead(coll schema.Collection, fields map[string]schema.Value) map[string]schema.Value {
	body, ok := coll.BodyField()
	if !ok || coll.Format != "md" {
		return fields
	}

	v, has := fields[bodyFieldKey]
	if !has {
		return fields
	}

	out := make(map[string]schema.Value, len(fields))
	for k, fv := range fields {
		if k == bodyFieldKey {
			continue
		}
		out[k] = fv
	}
	out[body.Name] = v
	return out
}

const (
	metaCollection   = "_collection"
	metaTemplate     = "_template"
	metaRelativePath = "_relativePath"
	metaID           = "_id"
)

// resolveTemplate determines the annotated "_template" value for doc. A
// collection with no declared Templates has a single implicit template
// equal to its own name. A collection with declared Templates requires the
// raw document to carry its own "_template" field identifying which member
// it is; the annotated value is that field's last '/'-separated segment.
func resolveTemplate(coll schema.Collection, collection, path string, fields map[string]schema.Value) (string, error) {
	if len(coll.Templates) == 0 {
		return collection, nil
	}

	v, ok := fields[metaTemplate]
	if !ok || v.Kind != schema.KindString || v.Str == "" {
		return "", templateErr(collection, path)
	}

	return lastSegment(v.Str), nil
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// relativePath strips coll's RootPath prefix (and a leading slash) from
// path, defaulting to path unchanged when the collection declares no root.
func relativePath(coll schema.Collection, path string) string {
	if coll.RootPath == "" {
		return path
	}

	rel := strings.TrimPrefix(path, coll.RootPath)
	return strings.TrimPrefix(rel, "/")
}

// annotateMetadata returns a copy of fields with the four reserved metadata
// keys set, without mutating the caller's map.
func annotateMetadata(coll schema.Collection, collection, path string, fields map[string]schema.Value) (map[string]schema.Value, error) {
	template, err := resolveTemplate(coll, collection, path, fields)
	if err != nil {
		return nil, err
	}

	out := make(map[string]schema.Value, len(fields)+4)
	for k, v := range fields {
		out[k] = v
	}
	out[metaCollection] = schema.String(collection)
	out[metaTemplate] = schema.String(template)
	out[metaRelativePath] = schema.String(relativePath(coll, path))
	out[metaID] = schema.String(path)
	return out, nil
}
