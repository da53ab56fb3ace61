package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/inkdex/inkdex/pkg/frontmatter"
	"github.com/inkdex/inkdex/pkg/schema"
)

// Encoder renders doc into the bytes Put writes through the bridge at
// doc.Path. The schema is passed alongside so an Encoder can look up the
// collection's declared Format and body field without a second lookup.
type Encoder func(ctx context.Context, collection string, doc schema.Document, sch *schema.Schema) ([]byte, error)

// Option configures a Database at Open time.
type Option func(*Database)

// WithEncoder overrides the Encoder Put uses to render a document before
// writing it through the bridge. The default is defaultEncode.
func WithEncoder(enc Encoder) Option {
	return func(d *Database) { d.encoder = enc }
}

// defaultEncode renders a "md" collection's document as frontmatter plus
// its body field, and every other document (including one in an "md"
// collection without a body field) as a JSON object. String, reference,
// number, boolean and datetime fields are written as plain JSON values;
// null, list and map fields keep schema.Value's tagged JSON encoding.
func defaultEncode(ctx context.Context, collection string, doc schema.Document, sch *schema.Schema) ([]byte, error) {
	coll, ok := sch.Collection(collection)
	if !ok {
		return nil, &Error{Kind: KindSchema, Collection: collection, Path: doc.Path, Err: schema.ErrUnknownCollection}
	}

	body, hasBody := coll.BodyField()
	if coll.Format != "md" || !hasBody {
		plain := make(map[string]any, len(doc.Fields))
		for k, v := range doc.Fields {
			plain[k] = v
			switch v.Kind {
			case schema.KindString, schema.KindReference:
				plain[k] = v.Str
			case schema.KindNumber:
				plain[k] = v.Num
			case schema.KindBool:
				plain[k] = v.Bool
			case schema.KindDatetime:
				plain[k] = v.Time
			}
		}
		data, err := json.Marshal(plain)
		if err != nil {
			return nil, fmt.Errorf("docstore: encode %s: %w", doc.Path, err)
		}
		return data, nil
	}

	bodyValue := doc.Fields[body.Name]
	header := schema.Document{Path: doc.Path, Fields: make(map[string]schema.Value, len(doc.Fields))}
	for k, v := range doc.Fields {
		if k == body.Name {
			continue
		}
		header.Fields[k] = v
	}

	markdown, err := frontmatter.RenderMarkdown(header, bodyValue.Str)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode %s: %w", doc.Path, err)
	}
	return []byte(markdown), nil
}
