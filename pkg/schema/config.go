package schema

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// configDoc is the on-disk JSONC shape accepted by Load, mirroring the
// fields of Collection/FieldDef/CompositeIndex with JSON-friendly names.
type configDoc struct {
	Collections []configCollection `json:"collections"`
}

type configCollection struct {
	Name      string               `json:"name"`
	Fields    []configField        `json:"fields"`
	Indexes   []configCompositeIdx `json:"indexes,omitempty"`
	Root      string               `json:"root,omitempty"`
	Format    string               `json:"format,omitempty"`
	Templates []string             `json:"templates,omitempty"`
}

type configField struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Indexed bool   `json:"indexed,omitempty"`
	Body    bool   `json:"body,omitempty"`
}

type configCompositeIdx struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

var fieldTypeNames = map[string]FieldType{
	"string":    FieldString,
	"number":    FieldNumber,
	"boolean":   FieldBoolean,
	"datetime":  FieldDatetime,
	"reference": FieldReference,
	"object":    FieldObject,
	"richtext":  FieldRichText,
}

// Load reads a JSONC (JSON-with-comments) schema definition from path,
// standardizing it to plain JSON with hujson before decoding.
func Load(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a JSONC schema definition from raw bytes.
func Parse(raw []byte) (*Schema, error) {
	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: standardize config: %w", err)
	}

	var doc configDoc
	if err := json.Unmarshal(std, &doc); err != nil {
		return nil, fmt.Errorf("schema: decode config: %w", err)
	}

	collections := make([]Collection, 0, len(doc.Collections))
	for _, cc := range doc.Collections {
		fields := make([]FieldDef, 0, len(cc.Fields))
		for _, cf := range cc.Fields {
			ft, ok := fieldTypeNames[cf.Type]
			if !ok {
				return nil, fmt.Errorf("schema: collection %q field %q: unknown type %q", cc.Name, cf.Name, cf.Type)
			}
			fields = append(fields, FieldDef{Name: cf.Name, Type: ft, Indexed: cf.Indexed, IsBody: cf.Body})
		}
		indexes := make([]CompositeIndex, 0, len(cc.Indexes))
		for _, ci := range cc.Indexes {
			indexes = append(indexes, CompositeIndex{Name: ci.Name, Fields: ci.Fields})
		}
		collections = append(collections, Collection{
			Name:      cc.Name,
			Fields:    fields,
			Indexes:   indexes,
			RootPath:  cc.Root,
			Format:    cc.Format,
			Templates: cc.Templates,
		})
	}

	return New(collections...), nil
}
