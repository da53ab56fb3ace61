package docstore

import (
	"context"

	"github.com/inkdex/inkdex/pkg/kv"
	"github.com/inkdex/inkdex/pkg/schema"
)

// Put writes doc into collection: it renders doc through the Database's
// Encoder and writes the result to the bridge at doc.Path, then retracts
// and replaces whatever index entries the path previously held. A bridge
// write failure is returned as a FetchError and the index is left
// untouched.
func (d *Database) Put(ctx context.Context, collection string, doc schema.Document) error {
	return d.put(ctx, "put", collection, doc, true)
}

// AddPendingDocument registers doc's index entries without writing its
// content through the bridge, for callers staging a document whose
// backing content is written separately or not yet durable. A Get through
// the bridge for this path may still miss until that write completes.
func (d *Database) AddPendingDocument(ctx context.Context, collection string, doc schema.Document) error {
	return d.put(ctx, "put", collection, doc, false)
}

func (d *Database) put(ctx context.Context, op, collection string, doc schema.Document, writeBridge bool) error {
	d.emit(op, PhaseInProgress, nil)

	err := d.withWriteLock(ctx, func() error {
		defs, err := d.indexDefinitionsFor(collection)
		if err != nil {
			return err
		}

		if writeBridge {
			data, err := d.encoder(ctx, collection, doc, d.schema)
			if err != nil {
				return newError(KindFetch, collection, doc.Path, err)
			}
			if err := d.bridge.Put(ctx, doc.Path, data); err != nil {
				return newError(KindFetch, collection, doc.Path, err)
			}
		}

		return d.store.Update(ctx, func(tx kv.Tx) error {
			return d.applyDocument(ctx, tx, collection, doc, defs)
		})
	})

	if err != nil {
		err = newError(KindIndex, collection, doc.Path, err)
		d.emit(op, PhaseFailed, err)
		return err
	}
	d.emit(op, PhaseComplete, nil)
	return nil
}
