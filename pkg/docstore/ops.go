package docstore

import (
	"context"
	"errors"

	"github.com/inkdex/inkdex/pkg/kv"
	"github.com/inkdex/inkdex/pkg/schema"
)

// applyDocument writes doc's primary record and secondary index entries
// within tx, first retracting whatever index entries the path's previous
// record (if any, and if it belonged to the same collection) held. This is
// the one place that upholds the "no orphaned index entries" invariant.
func (d *Database) applyDocument(ctx context.Context, tx kv.Tx, collection string, doc schema.Document, defs map[string]schema.IndexDefinition) error {
	root := tx.Sublevel(rootSublevel)

	raw, err := root.Get(ctx, []byte(doc.Path))
	switch {
	case err == nil:
		old, decErr := decodeRecord(raw)
		if decErr != nil {
			return decErr
		}
		if old.Collection == collection {
			if err := d.retractIndexEntries(ctx, tx, collection, schema.Document{Path: doc.Path, Fields: old.Fields}, defs); err != nil {
				return err
			}
		}
	case errors.Is(err, kv.ErrNotFound):
		// nothing to retract
	default:
		return err
	}

	for _, def := range defs {
		key, err := indexKeyFor(def, doc)
		if err != nil {
			return &Error{Kind: KindIndex, Collection: collection, Path: doc.Path, Err: err}
		}
		if err := tx.Sublevel(indexSublevelName(collection, def.SortKey)).Put(ctx, key, []byte{}); err != nil {
			return err
		}
	}

	coll, ok := d.schema.Collection(collection)
	if !ok {
		return &Error{Kind: KindSchema, Collection: collection, Path: doc.Path, Err: schema.ErrUnknownCollection}
	}

	rec := record{Collection: collection, Path: doc.Path, Fields: reshapeForStorage(coll, doc.Fields)}
	data, err := encodeRecord(rec)
	if err != nil {
		return &Error{Kind: KindIndex, Collection: collection, Path: doc.Path, Err: err}
	}
	return root.Put(ctx, []byte(doc.Path), data)
}

// removeDocument deletes the primary record at path and every secondary
// index entry it held, if a record exists there for collection.
func (d *Database) removeDocument(ctx context.Context, tx kv.Tx, collection, path string, defs map[string]schema.IndexDefinition) (existed bool, err error) {
	root := tx.Sublevel(rootSublevel)

	raw, err := root.Get(ctx, []byte(path))
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	old, err := decodeRecord(raw)
	if err != nil {
		return false, err
	}
	if old.Collection != collection {
		return false, nil
	}

	if err := d.retractIndexEntries(ctx, tx, collection, schema.Document{Path: path, Fields: old.Fields}, defs); err != nil {
		return false, err
	}
	if err := root.Delete(ctx, []byte(path)); err != nil {
		return false, err
	}
	return true, nil
}

func (d *Database) retractIndexEntries(ctx context.Context, tx kv.Tx, collection string, doc schema.Document, defs map[string]schema.IndexDefinition) error {
	for _, def := range defs {
		key, err := indexKeyFor(def, doc)
		if err != nil {
			return &Error{Kind: KindIndex, Collection: collection, Path: doc.Path, Err: err}
		}
		if err := tx.Sublevel(indexSublevelName(collection, def.SortKey)).Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
