package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/inkdex/inkdex/pkg/schema"
)

func cmdSeed(ctx context.Context, args []string) error {
	fset := newFlagSet("seed")
	dbf := registerDBFlags(fset)
	if err := fset.Parse(args); err != nil {
		return err
	}

	db, closeFn, err := openDatabase(dbf)
	if err != nil {
		return err
	}
	defer closeFn()

	rest, err := requirePositional(fset, 2, "usage: inkdex seed <collection> <count>")
	if err != nil {
		return err
	}
	collection := rest[0]
	n, err := strconv.Atoi(rest[1])
	if err != nil {
		return fmt.Errorf("seed: invalid count %q: %w", rest[1], err)
	}

	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		id := randomID()
		doc := schema.Document{
			Path: fmt.Sprintf("content/%s/%s.md", collection, id),
			Fields: map[string]schema.Value{
				"title":     schema.String(fmt.Sprintf("Sample %d", i)),
				"rank":      schema.Number(float64(i)),
				"draft":     schema.Bool(i%3 == 0),
				"createdAt": schema.Datetime(now.Add(time.Duration(i) * time.Minute)),
			},
		}
		if err := db.Put(ctx, collection, doc); err != nil {
			return fmt.Errorf("seed: writing %s: %w", doc.Path, err)
		}
	}
	fmt.Printf("seeded %d documents into %s\n", n, collection)
	return nil
}
