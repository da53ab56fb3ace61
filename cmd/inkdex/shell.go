package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/inkdex/inkdex/pkg/query"
)

const historyFile = ".inkdex_history"

// cmdShell runs an interactive query REPL. Each line is either a bare
// collection name (a default-sort scan) or "<collection> --sort k --eq
// f=v ..." using a subset of the query subcommand's flags: --sort,
// --reverse, --first, --after and --eq.
func cmdShell(ctx context.Context, args []string) error {
	fset := newFlagSet("shell")
	dbf := registerDBFlags(fset)
	if err := fset.Parse(args); err != nil {
		return err
	}

	db, closeFn, err := openDatabase(dbf)
	if err != nil {
		return err
	}
	defer closeFn()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println("inkdex shell. Type a collection name to scan it, or 'exit' to quit.")
	for {
		input, err := line.Prompt("inkdex> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if input == "exit" || input == "quit" {
			return nil
		}

		in, err := parseShellLine(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		if err := runQuery(ctx, db, in); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func parseShellLine(input string) (query.Input, error) {
	tokens := strings.Fields(input)
	fset := flag.NewFlagSet("shell", flag.ContinueOnError)
	sortKey := fset.String("sort", "", "")
	reverse := fset.Bool("reverse", false, "")
	first := fset.Int("first", 0, "")
	after := fset.String("after", "", "")
	eq := fset.StringArray("eq", nil, "")
	if err := fset.Parse(tokens[1:]); err != nil {
		return query.Input{}, err
	}

	chain, err := buildChain(*eq)
	if err != nil {
		return query.Input{}, err
	}

	in := query.Input{
		Collection: tokens[0],
		SortKey:    *sortKey,
		Filter:     chain,
		Reverse:    *reverse,
		After:      *after,
	}
	if *first > 0 {
		in.First = first
	}
	return in, nil
}
