package main

import (
	"context"
	"fmt"

	"github.com/inkdex/inkdex/pkg/schema"
)

func cmdGet(ctx context.Context, args []string) error {
	fset := newFlagSet("get")
	dbf := registerDBFlags(fset)
	if err := fset.Parse(args); err != nil {
		return err
	}

	db, closeFn, err := openDatabase(dbf)
	if err != nil {
		return err
	}
	defer closeFn()

	rest, err := requirePositional(fset, 2, "usage: inkdex get <collection> <path>")
	if err != nil {
		return err
	}

	doc, err := db.Get(ctx, rest[0], rest[1])
	if err != nil {
		return err
	}
	printDocument(doc)
	return nil
}

func cmdDelete(ctx context.Context, args []string) error {
	fset := newFlagSet("delete")
	dbf := registerDBFlags(fset)
	if err := fset.Parse(args); err != nil {
		return err
	}

	db, closeFn, err := openDatabase(dbf)
	if err != nil {
		return err
	}
	defer closeFn()

	rest, err := requirePositional(fset, 2, "usage: inkdex delete <collection> <path>")
	if err != nil {
		return err
	}

	if err := db.Delete(ctx, rest[0], rest[1]); err != nil {
		return err
	}
	fmt.Printf("deleted %s/%s\n", rest[0], rest[1])
	return nil
}

func printDocument(doc schema.Document) {
	fmt.Printf("path: %s\n", doc.Path)
	for name, v := range doc.Fields {
		fmt.Printf("  %s: %s\n", name, formatValue(v))
	}
}

func formatValue(v schema.Value) string {
	switch v.Kind {
	case schema.KindString, schema.KindReference:
		return v.Str
	case schema.KindNumber:
		return fmt.Sprintf("%g", v.Num)
	case schema.KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case schema.KindDatetime:
		return v.Time.Format("2006-01-02T15:04:05Z07:00")
	case schema.KindList:
		return fmt.Sprintf("<list of %d>", len(v.List))
	case schema.KindMap:
		return fmt.Sprintf("<object of %d fields>", len(v.Map))
	default:
		return "<null>"
	}
}
