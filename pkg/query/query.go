// Package query implements collection queries: planning an index and byte
// range from a sort key and filter chain, scanning it, applying any
// residual filter, and paginating the result with opaque cursors.
package query

import (
	"context"
	"fmt"

	"github.com/inkdex/inkdex/pkg/docstore"
	"github.com/inkdex/inkdex/pkg/filter"
	"github.com/inkdex/inkdex/pkg/keycodec"
	"github.com/inkdex/inkdex/pkg/kv"
	"github.com/inkdex/inkdex/pkg/schema"
)

// Input describes one collection query.
type Input struct {
	Collection string
	// SortKey names the index to scan; empty defaults to the collection's
	// implicit path index.
	SortKey string
	Filter  filter.Chain
	Reverse bool

	First *int
	After string

	Last   *int
	Before string
}

// Result is one page of a query.
type Result struct {
	Documents       []schema.Document
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     string
	EndCursor       string
}

// Run executes in against db.
func Run(ctx context.Context, db *docstore.Database, in Input) (Result, error) {
	if in.First != nil && in.Last != nil {
		return Result{}, fmt.Errorf("query: first and last are mutually exclusive")
	}

	sortKey := in.SortKey
	if sortKey == "" {
		sortKey = schema.DefaultSortKey
	}

	defs, err := db.Schema().IndexDefinitions()
	if err != nil {
		return Result{}, fmt.Errorf("query: %w", err)
	}
	collDefs, ok := defs[in.Collection]
	if !ok {
		return Result{}, fmt.Errorf("query: %w: %s", schema.ErrUnknownCollection, in.Collection)
	}
	def, ok := collDefs[sortKey]
	if !ok {
		return Result{}, fmt.Errorf("query: collection %q has no index named %q", in.Collection, sortKey)
	}

	plan, err := filter.Compile(def, in.Filter)
	if err != nil {
		return Result{}, fmt.Errorf("query: %w", err)
	}

	backward := in.Reverse
	limit := in.First
	if in.Last != nil {
		backward = !backward
		limit = in.Last
	}

	if in.After != "" {
		key, err := decodeCursor(in.After)
		if err != nil {
			return Result{}, fmt.Errorf("query: invalid after cursor: %w", err)
		}
		plan.Left, plan.LeftInclusive = key, false
	}
	if in.Before != "" {
		key, err := decodeCursor(in.Before)
		if err != nil {
			return Result{}, fmt.Errorf("query: invalid before cursor: %w", err)
		}
		plan.Right, plan.RightInclusive = key, false
	}

	opts := kv.IterOptions{Reverse: backward}
	if plan.Left != nil {
		if plan.LeftInclusive {
			opts.Gte = plan.Left
		} else {
			opts.Gt = plan.Left
		}
	}
	if plan.Right != nil {
		if plan.RightInclusive {
			opts.Lte = plan.Right
		} else {
			opts.Lt = plan.Right
		}
	}

	sublevel := db.Store().Sublevel(docstore.IndexSublevel(in.Collection, sortKey))
	it, err := sublevel.Iterator(ctx, opts)
	if err != nil {
		return Result{}, fmt.Errorf("query: %w", err)
	}
	defer it.Close()

	wantSegments := len(def.Fields) + 1

	var (
		keys []([]byte)
		docs []schema.Document
	)
	fetchLimit := -1
	if limit != nil {
		fetchLimit = *limit + 1
	}

	for it.Next(ctx) {
		if fetchLimit >= 0 && len(docs) >= fetchLimit {
			break
		}

		key := append([]byte{}, it.Key()...)
		segments, err := keycodec.SplitExpect(key, wantSegments)
		if err != nil {
			// A different index shape was written under this sort key by
			// an earlier schema version; skip rather than fail the scan.
			continue
		}
		path := string(segments[len(segments)-1])

		doc, err := db.Get(ctx, in.Collection, path)
		if err != nil {
			if docstore.IsNotFound(err) {
				// Point lookup raced with a concurrent delete; the index
				// entry is stale but will be cleaned up by the next write
				// to this path. Skip it for this scan.
				continue
			}
			return Result{}, wrapHydrationError(in.Collection, path, err)
		}

		if len(plan.Residual) > 0 && !filter.Match(plan.Residual, doc.Fields) {
			continue
		}

		keys = append(keys, key)
		docs = append(docs, doc)
	}
	if err := it.Err(); err != nil {
		return Result{}, fmt.Errorf("query: %w", err)
	}

	hasExtra := false
	if limit != nil && len(docs) > *limit {
		hasExtra = true
		docs = docs[:*limit]
		keys = keys[:*limit]
	}

	if in.Last != nil {
		reverseDocs(docs)
		reverseKeys(keys)
	}

	result := Result{Documents: docs}
	if len(keys) > 0 {
		result.StartCursor = encodeCursor(keys[0])
		result.EndCursor = encodeCursor(keys[len(keys)-1])
	}

	switch {
	case in.Last != nil:
		result.HasPreviousPage = hasExtra
		result.HasNextPage = in.Before != ""
	default:
		result.HasNextPage = hasExtra
		result.HasPreviousPage = in.After != ""
	}

	return result, nil
}

func reverseDocs(docs []schema.Document) {
	for i, j := 0, len(docs)-1; i < j; i, j = i+1, j-1 {
		docs[i], docs[j] = docs[j], docs[i]
	}
}

func reverseKeys(keys [][]byte) {
	for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
		keys[i], keys[j] = keys[j], keys[i]
	}
}
