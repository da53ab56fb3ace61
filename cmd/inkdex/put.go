package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/inkdex/inkdex/pkg/schema"
)

func cmdPut(ctx context.Context, args []string) error {
	fset := newFlagSet("put")
	fields := fset.StringToString("field", nil, "field=value pairs, repeatable (values parsed as number/bool/datetime/string)")
	body := fset.String("body", "", "markdown body, written under the collection's declared body field")
	dbf := registerDBFlags(fset)
	if err := fset.Parse(args); err != nil {
		return err
	}

	db, closeFn, err := openDatabase(dbf)
	if err != nil {
		return err
	}
	defer closeFn()

	rest, err := requirePositional(fset, 2, "usage: inkdex put <collection> <path> [--field k=v]... [--body text]")
	if err != nil {
		return err
	}
	collection, path := rest[0], rest[1]

	doc := schema.Document{Path: path, Fields: map[string]schema.Value{}}
	for k, v := range *fields {
		doc.Fields[k] = guessValue(v)
	}
	if *body != "" {
		if coll, ok := db.Schema().Collection(collection); ok {
			if bf, ok := coll.BodyField(); ok {
				doc.Fields[bf.Name] = schema.String(*body)
			}
		}
	}

	if err := db.Put(ctx, collection, doc); err != nil {
		return err
	}
	fmt.Printf("put %s/%s (%d fields)\n", collection, path, len(doc.Fields))
	return nil
}

// guessValue converts a raw CLI string into a schema.Value, trying the
// narrowest type first. There is no schema-aware coercion here; a field
// typed as a datetime in the schema still needs a parseable RFC3339 string
// on the command line.
func guessValue(raw string) schema.Value {
	if raw == "true" || raw == "false" {
		return schema.Bool(raw == "true")
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return schema.Number(n)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return schema.Datetime(t)
	}
	return schema.String(raw)
}
