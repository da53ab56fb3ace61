package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inkdex/inkdex/pkg/schema"
)

// graphqlFieldType maps a field's declared type to the GraphQL scalar the
// generated schema exposes it as.
func graphqlFieldType(t schema.FieldType) string {
	switch t {
	case schema.FieldNumber:
		return "Float"
	case schema.FieldBoolean:
		return "Boolean"
	default:
		return "String"
	}
}

// generateGraphQL renders a minimal GraphQL SDL type for coll, one scalar
// field per declared field. It is not schema-validated against the rest of
// the GraphQL ecosystem's tooling; it exists so the generated "_graphql.json"
// config record has real content to diff against across reindexes.
func generateGraphQL(coll schema.Collection) []byte {
	var b strings.Builder
	typeName := strings.ToUpper(coll.Name[:1]) + coll.Name[1:]
	fmt.Fprintf(&b, "type %s {\n", typeName)
	for _, f := range coll.Fields {
		fmt.Fprintf(&b, "  %s: %s\n", f.Name, graphqlFieldType(f.Type))
	}
	b.WriteString("}\n")
	return []byte(b.String())
}

// jsonSchemaField is the JSON Schema fragment generateJSONSchema emits for
// one field.
type jsonSchemaField struct {
	Type string `json:"type"`
}

// generateJSONSchema renders a minimal JSON Schema object describing coll's
// declared fields.
func generateJSONSchema(coll schema.Collection) []byte {
	properties := make(map[string]jsonSchemaField, len(coll.Fields))
	for _, f := range coll.Fields {
		properties[f.Name] = jsonSchemaField{Type: jsonSchemaFieldType(f.Type)}
	}
	out := map[string]any{
		"title":      coll.Name,
		"type":       "object",
		"properties": properties,
	}
	data, err := json.Marshal(out)
	if err != nil {
		return []byte("{}")
	}
	return data
}

func jsonSchemaFieldType(t schema.FieldType) string {
	switch t {
	case schema.FieldNumber:
		return "number"
	case schema.FieldBoolean:
		return "boolean"
	default:
		return "string"
	}
}
