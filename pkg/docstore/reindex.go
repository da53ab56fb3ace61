package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inkdex/inkdex/pkg/bridge"
	"github.com/inkdex/inkdex/pkg/kv"
	"github.com/inkdex/inkdex/pkg/schema"
)

// Loader parses the content at path (read through the bridge by the
// caller's own logic, since template/format parsing is outside this
// module's scope) into a schema.Document. A Loader that wants to skip a
// path entirely can return bridge.ErrNotFound.
type Loader func(ctx context.Context, path string) (schema.Document, error)

// IncrementalResult summarizes what a reindex operation did.
type IncrementalResult struct {
	Indexed int
	Deleted int
	Skipped int
}

// configCollection tags the three generated config records IndexContent
// writes, keeping them out of every real collection's own index scope so a
// later IndexContent on an unrelated collection can't clear them.
const configCollection = "__config__"

// IndexContent performs a full reindex of collection: it writes the three
// generated config records (graphql schema, JSON schema, and a path lookup
// table derived from the glob results), clears every primary record and
// index entry collection currently owns, then loads and writes every path
// the bridge's Glob(pattern) returns, batching batchFlushThreshold
// documents at a time.
//
// The clear is scoped to collection, not the whole store: a literal
// whole-database wipe would destroy every other collection's data on every
// single-collection reindex, which full-reindex idempotency (running
// IndexContent twice must reach the same state) does not require.
func (d *Database) IndexContent(ctx context.Context, collection, pattern string, graphql, jsonSchema []byte, load Loader) (IncrementalResult, error) {
	const op = "index_content"
	d.emit(op, PhaseInProgress, nil)

	var result IncrementalResult
	err := d.withWriteLock(ctx, func() error {
		defs, err := d.indexDefinitionsFor(collection)
		if err != nil {
			return err
		}

		paths, err := d.bridge.Glob(ctx, pattern)
		if err != nil {
			return newError(KindFetch, collection, pattern, err)
		}

		lookup, err := buildLookup(collection, paths)
		if err != nil {
			return newError(KindIndex, collection, pattern, err)
		}

		for _, cfg := range []struct {
			name string
			data []byte
		}{
			{"_graphql.json", graphql},
			{"_schema.json", jsonSchema},
			{"_lookup.json", lookup},
		} {
			if err := d.putConfig(ctx, cfg.name, cfg.data); err != nil {
				return err
			}
		}

		if err := d.clearCollection(ctx, collection, defs); err != nil {
			return newError(KindIndex, collection, pattern, err)
		}

		return d.replayBatches(ctx, collection, paths, defs, load, &result)
	})

	if err != nil {
		d.emit(op, PhaseFailed, err)
		return result, err
	}
	d.emit(op, PhaseComplete, nil)
	return result, nil
}

// putConfig writes a generated config record through the bridge (so it
// exists as a real file under bridge.GeneratedConfigDir) and as a
// lightweight primary record tagged configCollection, so it is reachable
// through Get like any other path.
func (d *Database) putConfig(ctx context.Context, name string, data []byte) error {
	path := bridge.GeneratedConfigDir + "/" + name

	if err := d.bridge.PutConfig(ctx, name, data); err != nil {
		return newError(KindFetch, configCollection, path, err)
	}

	rec := record{
		Collection: configCollection,
		Path:       path,
		Fields:     map[string]schema.Value{"contents": schema.String(string(data))},
	}
	encoded, err := encodeRecord(rec)
	if err != nil {
		return &Error{Kind: KindIndex, Collection: configCollection, Path: path, Err: err}
	}

	return d.store.Update(ctx, func(tx kv.Tx) error {
		return tx.Sublevel(rootSublevel).Put(ctx, []byte(path), encoded)
	})
}

// buildLookup renders the generated "_lookup.json" record: a path to
// collection map for every document a reindex is about to (re)write.
func buildLookup(collection string, paths []string) ([]byte, error) {
	lookup := make(map[string]string, len(paths))
	for _, p := range paths {
		lookup[p] = collection
	}
	data, err := json.Marshal(lookup)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode lookup: %w", err)
	}
	return data, nil
}

// clearCollection removes every primary record belonging to collection and
// every entry in each of its index sublevels, so a full reindex replay
// starts from a clean slate (the full-reindex-idempotency property,
// invariant 1's no-orphans guarantee across repeated reindexes).
func (d *Database) clearCollection(ctx context.Context, collection string, defs map[string]schema.IndexDefinition) error {
	return d.store.Update(ctx, func(tx kv.Tx) error {
		root := tx.Sublevel(rootSublevel)

		it, err := root.Iterator(ctx, kv.IterOptions{})
		if err != nil {
			return err
		}

		var stale [][]byte
		for it.Next(ctx) {
			rec, err := decodeRecord(it.Value())
			if err != nil {
				it.Close()
				return err
			}
			if rec.Collection == collection {
				stale = append(stale, append([]byte(nil), it.Key()...))
			}
		}
		iterErr := it.Err()
		it.Close()
		if iterErr != nil {
			return iterErr
		}

		for _, key := range stale {
			if err := root.Delete(ctx, key); err != nil {
				return err
			}
		}

		for sortKey := range defs {
			if err := tx.Sublevel(indexSublevelName(collection, sortKey)).Clear(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

// IndexContentByPaths loads and writes each of paths into collection,
// batching batchFlushThreshold documents per underlying transaction. A path
// whose Loader call fails with bridge.ErrNotFound is counted as Skipped
// rather than failing the whole operation; any other Loader error aborts
// the batch currently being built and is returned wrapped as a FetchError.
//
// This operation intentionally does not remove index entries a path held
// under a different collection than the one passed here: moving a
// document between collections does not retract it from its prior
// collection's indexes. Unlike IndexContent, it never clears existing data
// first; it is the incremental variant.
func (d *Database) IndexContentByPaths(ctx context.Context, collection string, paths []string, load Loader) (IncrementalResult, error) {
	const op = "index_content"
	d.emit(op, PhaseInProgress, nil)

	var result IncrementalResult
	err := d.withWriteLock(ctx, func() error {
		defs, err := d.indexDefinitionsFor(collection)
		if err != nil {
			return err
		}
		return d.replayBatches(ctx, collection, paths, defs, load, &result)
	})

	if err != nil {
		d.emit(op, PhaseFailed, err)
		return result, err
	}
	d.emit(op, PhaseComplete, nil)
	return result, nil
}

// replayBatches loads and applies each of paths into collection in batches
// of batchFlushThreshold, assuming the caller already holds the write lock.
func (d *Database) replayBatches(ctx context.Context, collection string, paths []string, defs map[string]schema.IndexDefinition, load Loader, result *IncrementalResult) error {
	for start := 0; start < len(paths); start += batchFlushThreshold {
		end := start + batchFlushThreshold
		if end > len(paths) {
			end = len(paths)
		}
		batch := paths[start:end]

		err := d.store.Update(ctx, func(tx kv.Tx) error {
			for _, p := range batch {
				doc, err := load(ctx, p)
				if err != nil {
					if isNotFound(err) {
						result.Skipped++
						continue
					}
					return newError(KindFetch, collection, p, err)
				}
				if err := d.applyDocument(ctx, tx, collection, doc, defs); err != nil {
					return err
				}
				result.Indexed++
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, bridge.ErrNotFound)
}

// DeleteContentByPaths removes every path in paths from collection,
// batching batchFlushThreshold paths per underlying transaction. A path
// with no record, or one belonging to a different collection, counts
// toward Skipped rather than Deleted.
func (d *Database) DeleteContentByPaths(ctx context.Context, collection string, paths []string) (IncrementalResult, error) {
	const op = "delete_content"
	d.emit(op, PhaseInProgress, nil)

	var result IncrementalResult
	err := d.withWriteLock(ctx, func() error {
		defs, err := d.indexDefinitionsFor(collection)
		if err != nil {
			return err
		}

		for start := 0; start < len(paths); start += batchFlushThreshold {
			end := start + batchFlushThreshold
			if end > len(paths) {
				end = len(paths)
			}
			batch := paths[start:end]

			err := d.store.Update(ctx, func(tx kv.Tx) error {
				for _, p := range batch {
					existed, err := d.removeDocument(ctx, tx, collection, p, defs)
					if err != nil {
						return err
					}
					if existed {
						result.Deleted++
					} else {
						result.Skipped++
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		d.emit(op, PhaseFailed, err)
		return result, err
	}
	d.emit(op, PhaseComplete, nil)
	return result, nil
}
