package docstore

import (
	"bytes"
	"context"
	"errors"
	"sort"

	"github.com/inkdex/inkdex/pkg/kv"
	"github.com/inkdex/inkdex/pkg/schema"
)

// Get fetches the document stored at path within collection, reversing the
// "$_body" storage reshape for "md" collections and annotating the result
// with "_collection", "_template", "_relativePath" and "_id".
func (d *Database) Get(ctx context.Context, collection, path string) (schema.Document, error) {
	raw, err := d.store.Sublevel(rootSublevel).Get(ctx, []byte(path))
	if errors.Is(err, kv.ErrNotFound) {
		return schema.Document{}, notFoundErr(collection, path)
	}
	if err != nil {
		return schema.Document{}, newError(KindFetch, collection, path, err)
	}

	rec, err := decodeRecord(raw)
	if err != nil {
		return schema.Document{}, newError(KindFetch, collection, path, err)
	}
	if rec.Collection != collection {
		return schema.Document{}, notFoundErr(collection, path)
	}

	return d.hydrate(rec)
}

// hydrate reverses a primary record's storage reshape and annotates it with
// the four reserved metadata fields, resolving rec.Collection against the
// schema to do so. Generated config records carry no schema collection and
// are returned unadorned, matching how the query engine re-raises hydration
// failures for generated config paths.
func (d *Database) hydrate(rec record) (schema.Document, error) {
	if rec.Collection == configCollection {
		return schema.Document{Path: rec.Path, Fields: rec.Fields}, nil
	}

	coll, ok := d.schema.Collection(rec.Collection)
	if !ok {
		return schema.Document{}, &Error{Kind: KindSchema, Collection: rec.Collection, Path: rec.Path, Err: schema.ErrUnknownCollection}
	}

	fields := reshapeForRead(coll, rec.Fields)

	fields, err := annotateMetadata(coll, rec.Collection, rec.Path, fields)
	if err != nil {
		return schema.Document{}, err
	}

	return schema.Document{Path: rec.Path, Fields: fields}, nil
}

// maxPrefixResults bounds GetByPrefix so a broad prefix can't silently
// return an unbounded result set.
const maxPrefixResults = 50

// GetByPrefix lists every document whose path starts with prefix, up to
// maxPrefixResults entries, ordered by path.
func (d *Database) GetByPrefix(ctx context.Context, prefix string) ([]schema.Document, error) {
	root := d.store.Sublevel(rootSublevel)
	it, err := root.Iterator(ctx, kv.IterOptions{Gte: []byte(prefix)})
	if err != nil {
		return nil, newError(KindFetch, "", prefix, err)
	}
	defer it.Close()

	var out []schema.Document
	for it.Next(ctx) {
		if !bytes.HasPrefix(it.Key(), []byte(prefix)) {
			break
		}
		rec, err := decodeRecord(it.Value())
		if err != nil {
			return nil, newError(KindFetch, "", string(it.Key()), err)
		}
		doc, err := d.hydrate(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
		if len(out) >= maxPrefixResults {
			break
		}
	}
	if err := it.Err(); err != nil {
		return nil, newError(KindFetch, "", prefix, err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
