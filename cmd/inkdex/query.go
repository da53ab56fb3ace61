package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkdex/inkdex/pkg/docstore"
	"github.com/inkdex/inkdex/pkg/filter"
	"github.com/inkdex/inkdex/pkg/query"
)

func cmdQuery(ctx context.Context, args []string) error {
	fset := newFlagSet("query")
	sortKey := fset.String("sort", "", "index to scan (defaults to the path index)")
	reverse := fset.Bool("reverse", false, "scan in descending order")
	first := fset.Int("first", 0, "page size, forward pagination")
	after := fset.String("after", "", "cursor to resume forward pagination from")
	last := fset.Int("last", 0, "page size, backward pagination")
	before := fset.String("before", "", "cursor to resume backward pagination from")
	eq := fset.StringArray("eq", nil, "field=value equality clause, repeatable")
	dbf := registerDBFlags(fset)
	if err := fset.Parse(args); err != nil {
		return err
	}

	db, closeFn, err := openDatabase(dbf)
	if err != nil {
		return err
	}
	defer closeFn()

	rest, err := requirePositional(fset, 1, "usage: inkdex query <collection> [flags]")
	if err != nil {
		return err
	}

	chain, err := buildChain(*eq)
	if err != nil {
		return err
	}

	in := query.Input{
		Collection: rest[0],
		SortKey:    *sortKey,
		Filter:     chain,
		Reverse:    *reverse,
		After:      *after,
		Before:     *before,
	}
	if *first > 0 {
		in.First = first
	}
	if *last > 0 {
		in.Last = last
	}

	return runQuery(ctx, db, in)
}

func runQuery(ctx context.Context, db *docstore.Database, in query.Input) error {
	result, err := query.Run(ctx, db, in)
	if err != nil {
		return err
	}
	for _, doc := range result.Documents {
		printDocument(doc)
	}
	fmt.Printf("--- %d result(s), hasNext=%t hasPrev=%t\n", len(result.Documents), result.HasNextPage, result.HasPreviousPage)
	if result.EndCursor != "" {
		fmt.Printf("end cursor: %s\n", result.EndCursor)
	}
	return nil
}

func buildChain(eqFlags []string) (filter.Chain, error) {
	var chain filter.Chain
	for _, raw := range eqFlags {
		field, val, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("--eq expects field=value, got %q", raw)
		}
		chain = append(chain, filter.Eq(field, guessValue(val)))
	}
	return chain, nil
}
