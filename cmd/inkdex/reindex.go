package main

import (
	"context"
	"fmt"

	"github.com/inkdex/inkdex/pkg/frontmatter"
	"github.com/inkdex/inkdex/pkg/schema"
)

func cmdReindex(ctx context.Context, args []string) error {
	fset := newFlagSet("reindex")
	dbf := registerDBFlags(fset)
	if err := fset.Parse(args); err != nil {
		return err
	}

	db, closeFn, err := openDatabase(dbf)
	if err != nil {
		return err
	}
	defer closeFn()

	rest, err := requirePositional(fset, 2, "usage: inkdex reindex <collection> <glob>")
	if err != nil {
		return err
	}
	collection, pattern := rest[0], rest[1]

	coll, ok := db.Schema().Collection(collection)
	if !ok {
		return fmt.Errorf("reindex: unknown collection %q", collection)
	}

	br := db.Bridge()
	load := func(ctx context.Context, path string) (schema.Document, error) {
		raw, err := br.Get(ctx, path)
		if err != nil {
			return schema.Document{}, err
		}
		doc, _, err := frontmatter.ParseDocument(path, raw)
		return doc, err
	}

	result, err := db.IndexContent(ctx, collection, pattern, generateGraphQL(coll), generateJSONSchema(coll), load)
	if err != nil {
		return err
	}
	fmt.Printf("indexed=%d skipped=%d\n", result.Indexed, result.Skipped)
	return nil
}
