package frontmatter

import (
	"fmt"

	"github.com/inkdex/inkdex/pkg/schema"
)

// ToDocument converts parsed frontmatter entries into a schema.Document for
// path, mapping the restricted YAML subset onto schema.Value: strings and
// ints become KindString/KindNumber, bools KindBool, lists KindList, and
// objects KindMap. There is no datetime or reference scalar in the
// frontmatter grammar; a collection that indexes a field as one of those
// types needs the caller to reinterpret the raw string after ToDocument
// returns, the way a template layer would.
func ToDocument(path string, fm Frontmatter) schema.Document {
	fields := make(map[string]schema.Value, fm.Len())
	for _, entry := range fm.EntriesView() {
		fields[string(entry.Key)] = valueToSchema(entry.Value)
	}
	return schema.Document{Path: path, Fields: fields}
}

func valueToSchema(v Value) schema.Value {
	switch v.Kind {
	case ValueScalar:
		return scalarToSchema(v.Scalar)
	case ValueList:
		items := make([]schema.Value, len(v.List))
		for i, raw := range v.List {
			items[i] = schema.String(string(raw))
		}
		return schema.List(items)
	case ValueObject:
		m := make(map[string]schema.Value, len(v.Object))
		for _, entry := range v.Object {
			m[string(entry.Key)] = scalarToSchema(entry.Value)
		}
		return schema.Map(m)
	default:
		return schema.Value{}
	}
}

func scalarToSchema(s Scalar) schema.Value {
	switch s.Kind {
	case ScalarString:
		return schema.String(string(s.Bytes))
	case ScalarInt:
		return schema.Number(float64(s.Int))
	case ScalarBool:
		return schema.Bool(s.Bool)
	default:
		return schema.Value{}
	}
}

// ParseDocument parses src's frontmatter block and returns the resulting
// schema.Document alongside the remaining body bytes.
func ParseDocument(path string, src []byte, opts ...ParseOption) (schema.Document, []byte, error) {
	fm, body, err := ParseBytes(src, opts...)
	if err != nil {
		return schema.Document{}, nil, fmt.Errorf("frontmatter: parse %s: %w", path, err)
	}
	return ToDocument(path, fm), body, nil
}

// FromDocument builds a Frontmatter from doc's fields, skipping any field
// whose value can't be represented in the restricted YAML subset (datetime
// and reference fields are written out as plain strings).
func FromDocument(doc schema.Document) Frontmatter {
	var fm Frontmatter
	for name, v := range doc.Fields {
		if val := schemaToValue(v); val != nil {
			fm.MustSet([]byte(name), val)
		}
	}
	return fm
}

func schemaToValue(v schema.Value) *Value {
	switch v.Kind {
	case schema.KindString, schema.KindReference:
		return StringValue(v.Str)
	case schema.KindDatetime:
		return StringValue(v.Time.Format("2006-01-02T15:04:05Z07:00"))
	case schema.KindNumber:
		return IntValue(int64(v.Num))
	case schema.KindBool:
		return BoolValue(v.Bool)
	case schema.KindList:
		items := make([]string, 0, len(v.List))
		for _, item := range v.List {
			if item.Kind == schema.KindString {
				items = append(items, item.Str)
			}
		}
		return StringListValue(items)
	default:
		return nil
	}
}

var renderPriorityKeys = [][]byte{[]byte("_template"), []byte("title")}

// RenderMarkdown serializes doc as a frontmatter block followed by body.
// A union collection's discriminator (_template) and title, when present,
// are rendered ahead of the rest of the header.
func RenderMarkdown(doc schema.Document, body string) (string, error) {
	fm := FromDocument(doc)
	yaml, err := fm.MarshalYAML(WithYAMLDelimiters(true), WithKeyPriority(renderPriorityKeys...))
	if err != nil {
		return "", fmt.Errorf("frontmatter: marshal %s: %w", doc.Path, err)
	}
	return yaml + body, nil
}
