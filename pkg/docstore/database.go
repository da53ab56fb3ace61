// Package docstore implements the primary record store and its secondary
// index write path: put, delete, full reindex, and incremental reindex by
// path, all driven by a schema.Schema's derived index definitions and
// keyed with pkg/keycodec.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/inkdex/inkdex/pkg/bridge"
	"github.com/inkdex/inkdex/pkg/keycodec"
	"github.com/inkdex/inkdex/pkg/kv"
	"github.com/inkdex/inkdex/pkg/schema"
)

// rootSublevel holds primary document records, keyed by logical path.
const rootSublevel = "~"

// batchFlushThreshold is the number of documents (paths) a reindex
// operation writes per transaction, with a final transaction for whatever
// is left. It counts documents, not the index mutations each document
// produces, so one transaction usually holds more key writes. Kept short
// because bbolt holds a single process-wide writer lock per transaction;
// a larger batch trades lock-hold time for fewer fsyncs.
const batchFlushThreshold = 25

// Database wires a Bridge, an ordered Store and a Schema together into the
// primary document store and its secondary indexes.
type Database struct {
	bridge  bridge.Bridge
	store   kv.Store
	schema  *schema.Schema
	encoder Encoder

	mu       sync.Mutex
	onStatus func(Status)
}

// Open constructs a Database over the given bridge, key-value store and
// schema. None of the arguments may be nil. By default Put renders a
// document through defaultEncode before writing it to the bridge; pass
// WithEncoder to override that.
func Open(b bridge.Bridge, s kv.Store, sch *schema.Schema, opts ...Option) *Database {
	if b == nil || s == nil || sch == nil {
		panic("docstore: Open requires a non-nil bridge, store and schema")
	}
	d := &Database{bridge: b, store: s, schema: sch, encoder: defaultEncode}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Bridge exposes the underlying content bridge for callers (the reindex
// command) that need to read raw content the same way Put's default
// encoder writes it, without constructing a second bridge instance.
func (d *Database) Bridge() bridge.Bridge { return d.bridge }

// Store exposes the underlying ordered key-value store for the query
// engine, which scans index sublevels directly rather than through the
// document store's own API.
func (d *Database) Store() kv.Store { return d.store }

// Schema exposes the underlying schema for the query engine, which needs
// to resolve index definitions itself while planning a scan.
func (d *Database) Schema() *schema.Schema { return d.schema }

// IndexSublevel returns the sublevel name an index with the given sort key
// uses within collection, for callers (the query engine) that need to open
// it directly on the store returned by Store.
func IndexSublevel(collection, sortKey string) string { return indexSublevelName(collection, sortKey) }

// record is the on-disk shape of one primary document entry.
type record struct {
	Collection string                  `json:"collection"`
	Path       string                  `json:"path"`
	Fields     map[string]schema.Value `json:"fields"`
}

func indexSublevelName(collection, sortKey string) string {
	return collection + "/" + sortKey
}

func encodeRecord(r record) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode record: %w", err)
	}
	return data, nil
}

func decodeRecord(data []byte) (record, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return record{}, fmt.Errorf("docstore: decode record: %w", err)
	}
	return r, nil
}

// indexDefinitionsFor resolves the schema's index definitions for a
// collection, wrapped as a SchemaError on failure.
func (d *Database) indexDefinitionsFor(collection string) (map[string]schema.IndexDefinition, error) {
	all, err := d.schema.IndexDefinitions()
	if err != nil {
		return nil, &Error{Kind: KindSchema, Collection: collection, Err: err}
	}
	defs, ok := all[collection]
	if !ok {
		return nil, &Error{Kind: KindSchema, Collection: collection, Err: fmt.Errorf("%w: %s", schema.ErrUnknownCollection, collection)}
	}
	return defs, nil
}

// indexKeyFor computes the composite key an index definition assigns to a
// document, using the zero value for any field the document does not carry
// so that every document gets exactly one entry per applicable index.
func indexKeyFor(def schema.IndexDefinition, doc schema.Document) ([]byte, error) {
	var fields [][]byte
	for _, f := range def.Fields {
		v, ok := doc.Fields[f.Name]
		if !ok {
			v = zeroValueFor(f.Type)
		}
		enc, err := encodeIndexField(f, v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		fields = append(fields, enc)
	}
	return keycodec.ComposeKey(fields, doc.Path), nil
}

func zeroValueFor(t schema.FieldType) schema.Value {
	switch t {
	case schema.FieldString:
		return schema.String("")
	case schema.FieldNumber:
		return schema.Number(0)
	case schema.FieldBoolean:
		return schema.Bool(false)
	case schema.FieldDatetime:
		return schema.Datetime(time.Time{})
	case schema.FieldReference:
		return schema.Reference("")
	default:
		return schema.Value{}
	}
}

func encodeIndexField(f schema.IndexField, v schema.Value) ([]byte, error) {
	switch f.Type {
	case schema.FieldString:
		return keycodec.EncodeString(nil, v.Str), nil
	case schema.FieldReference:
		return keycodec.EncodeReference(nil, v.Str), nil
	case schema.FieldBoolean:
		return keycodec.EncodeBool(nil, v.Bool), nil
	case schema.FieldDatetime:
		return keycodec.EncodeDatetime(nil, v.Time), nil
	case schema.FieldNumber:
		pad := keycodec.DefaultNumberPadding
		if f.Padding != nil {
			pad = *f.Padding
		}
		return keycodec.EncodeNumber(nil, v.Num, pad)
	default:
		return nil, fmt.Errorf("field %q has non-indexable type", f.Name)
	}
}

// withWriteLock serializes every mutator behind a single in-process mutex.
// Cross-process exclusion is already provided by the underlying bbolt
// file lock, so a mutex is enough to linearize writers within one process.
func (d *Database) withWriteLock(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn()
}
