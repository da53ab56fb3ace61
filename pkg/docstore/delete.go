package docstore

import (
	"context"

	"github.com/inkdex/inkdex/pkg/kv"
)

// Delete removes the document at path from collection, along with every
// secondary index entry it held, and its content through the bridge.
// Deleting a path with no record, or one belonging to a different
// collection, is not an error and leaves the bridge untouched.
func (d *Database) Delete(ctx context.Context, collection, path string) error {
	const op = "delete"
	d.emit(op, PhaseInProgress, nil)

	err := d.withWriteLock(ctx, func() error {
		defs, err := d.indexDefinitionsFor(collection)
		if err != nil {
			return err
		}

		var existed bool
		if err := d.store.Update(ctx, func(tx kv.Tx) error {
			var err error
			existed, err = d.removeDocument(ctx, tx, collection, path, defs)
			return err
		}); err != nil {
			return err
		}

		if !existed {
			return nil
		}
		if err := d.bridge.Delete(ctx, path); err != nil {
			return newError(KindFetch, collection, path, err)
		}
		return nil
	})

	if err != nil {
		err = newError(KindIndex, collection, path, err)
		d.emit(op, PhaseFailed, err)
		return err
	}
	d.emit(op, PhaseComplete, nil)
	return nil
}
