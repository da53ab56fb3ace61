// Command inkdex is a playground CLI over the content indexing and query
// engine.
//
// Usage:
//
//	inkdex put <collection> <path> --field title=Hello [--field=value]...
//	inkdex get <collection> <path>
//	inkdex delete <collection> <path>
//	inkdex reindex <collection> <glob>
//	inkdex query <collection> [--sort key] [--first N] [--after cursor]
//	inkdex shell
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	flag "github.com/spf13/pflag"

	"github.com/inkdex/inkdex/pkg/bridge"
	"github.com/inkdex/inkdex/pkg/docstore"
	ifs "github.com/inkdex/inkdex/pkg/fs"
	"github.com/inkdex/inkdex/pkg/kv"
	"github.com/inkdex/inkdex/pkg/schema"
)

const (
	defaultDataDir    = "./content"
	defaultDBPath     = "./inkdex.db"
	defaultSchemaPath = "./inkdex.schema.jsonc"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Println(usage())
		return nil
	}

	ctx := context.Background()

	switch args[0] {
	case "put":
		return cmdPut(ctx, args[1:])
	case "get":
		return cmdGet(ctx, args[1:])
	case "delete", "rm":
		return cmdDelete(ctx, args[1:])
	case "reindex":
		return cmdReindex(ctx, args[1:])
	case "query":
		return cmdQuery(ctx, args[1:])
	case "seed":
		return cmdSeed(ctx, args[1:])
	case "shell":
		return cmdShell(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Println(usage())
		return nil
	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage())
	}
}

func usage() string {
	return `inkdex playground CLI

Commands:
  put <collection> <path> [--field k=v]...     Write a document
  get <collection> <path>                      Fetch a document
  delete <collection> <path>                   Delete a document
  reindex <collection> <glob>                  Reindex matching content paths
  query <collection> [--sort key] [--first N] [--after cursor] [--eq field=value]
  seed <collection> <count>                    Write randomly-keyed sample documents
  shell                                        Interactive query REPL

Flags (global, accepted by every subcommand):
  --db      path to the bbolt index file (default ./inkdex.db)
  --data    content root the bridge reads/writes (default ./content)
  --schema  JSONC schema file (default ./inkdex.schema.jsonc)
`
}

// dbFlags holds the shared --db/--data/--schema flag pointers. A subcommand
// registers these with registerDBFlags before parsing its own flags, then
// calls openDatabase once parsing has happened.
type dbFlags struct {
	dbPath     *string
	dataDir    *string
	schemaPath *string
}

func registerDBFlags(fset *flag.FlagSet) dbFlags {
	return dbFlags{
		dbPath:     fset.String("db", defaultDBPath, "bbolt index file path"),
		dataDir:    fset.String("data", defaultDataDir, "content root directory"),
		schemaPath: fset.String("schema", defaultSchemaPath, "JSONC schema file path"),
	}
}

// openDatabase opens a docstore.Database from already-parsed db flags.
// Every subcommand opens and closes its own instance; there is no
// persistent daemon.
func openDatabase(f dbFlags) (*docstore.Database, func() error, error) {
	sch, err := schema.Load(*f.schemaPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load schema: %w", err)
	}

	store, err := kv.OpenBolt(*f.dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open index: %w", err)
	}

	br := bridge.NewLocal(*f.dataDir, ifs.NewReal())
	db := docstore.Open(br, store, sch)
	db.OnStatus(func(s docstore.Status) {
		if s.Phase == docstore.PhaseFailed {
			fmt.Fprintf(os.Stderr, "%s: failed: %v\n", s.Operation, s.Err)
		}
	})

	return db, store.Close, nil
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func requirePositional(fset *flag.FlagSet, n int, usage string) ([]string, error) {
	rest := fset.Args()
	if len(rest) < n {
		return nil, errors.New(usage)
	}
	return rest, nil
}

func randomID() string {
	return uuid.NewString()
}
