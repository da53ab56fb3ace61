package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkdex/inkdex/pkg/bridge"
	"github.com/inkdex/inkdex/pkg/kv"
	"github.com/inkdex/inkdex/pkg/schema"
)

func TestPutAndGet(t *testing.T) {
	ctx := context.Background()
	db, _ := newTestDB(t, testSchema())

	doc := schema.Document{
		Path: "content/posts/hello.md",
		Fields: map[string]schema.Value{
			"title": schema.String("Hello"),
			"rank":  schema.Number(1),
			"draft": schema.Bool(false),
		},
	}
	require.NoError(t, db.Put(ctx, "posts", doc))

	got, err := db.Get(ctx, "posts", doc.Path)
	require.NoError(t, err)
	assert.Equal(t, doc.Path, got.Path)
	assert.Equal(t, "Hello", got.Fields["title"].Str)
}

func TestGet_NotFound(t *testing.T) {
	ctx := context.Background()
	db, _ := newTestDB(t, testSchema())

	_, err := db.Get(ctx, "posts", "content/posts/missing.md")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPut_CreatesOneIndexEntryPerIndex(t *testing.T) {
	ctx := context.Background()
	db, _ := newTestDB(t, testSchema())

	doc := schema.Document{
		Path: "content/posts/hello.md",
		Fields: map[string]schema.Value{
			"title": schema.String("Hello"),
			"rank":  schema.Number(1),
			"draft": schema.Bool(false),
		},
	}
	require.NoError(t, db.Put(ctx, "posts", doc))

	for _, sortKey := range []string{"__filepath__", "title", "rank", "draft"} {
		sl := db.store.Sublevel(indexSublevelName("posts", sortKey))
		it, err := sl.Iterator(ctx, kv.IterOptions{})
		require.NoError(t, err)
		count := 0
		for it.Next(ctx) {
			count++
		}
		require.NoError(t, it.Err())
		it.Close()
		assert.Equal(t, 1, count, "expected exactly one entry in index %q", sortKey)
	}
}

func TestPut_OverwriteRetractsStaleIndexEntries(t *testing.T) {
	ctx := context.Background()
	db, _ := newTestDB(t, testSchema())

	path := "content/posts/hello.md"
	require.NoError(t, db.Put(ctx, "posts", schema.Document{
		Path: path,
		Fields: map[string]schema.Value{
			"title": schema.String("Hello"),
			"rank":  schema.Number(1),
			"draft": schema.Bool(false),
		},
	}))
	require.NoError(t, db.Put(ctx, "posts", schema.Document{
		Path: path,
		Fields: map[string]schema.Value{
			"title": schema.String("Updated"),
			"rank":  schema.Number(2),
			"draft": schema.Bool(true),
		},
	}))

	sl := db.store.Sublevel(indexSublevelName("posts", "rank"))
	it, err := sl.Iterator(ctx, kv.IterOptions{})
	require.NoError(t, err)
	defer it.Close()
	count := 0
	for it.Next(ctx) {
		count++
	}
	require.NoError(t, it.Err())
	assert.Equal(t, 1, count, "updating a document must retract its old index entry, not add a second one")

	got, err := db.Get(ctx, "posts", path)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Fields["title"].Str)
}

func TestPut_StatusCallback(t *testing.T) {
	ctx := context.Background()
	db, _ := newTestDB(t, testSchema())

	var phases []Phase
	db.OnStatus(func(s Status) { phases = append(phases, s.Phase) })

	require.NoError(t, db.Put(ctx, "posts", schema.Document{
		Path:   "content/posts/hello.md",
		Fields: map[string]schema.Value{"title": schema.String("Hello")},
	}))

	assert.Equal(t, []Phase{PhaseInProgress, PhaseComplete}, phases)
}

func TestPut_UnknownCollection(t *testing.T) {
	ctx := context.Background()
	db, _ := newTestDB(t, testSchema())

	err := db.Put(ctx, "nope", schema.Document{Path: "x"})
	require.Error(t, err)
}

func TestPut_WritesContentThroughBridge(t *testing.T) {
	ctx := context.Background()
	db, fb := newTestDB(t, testSchema())

	path := "content/posts/hello.md"
	require.NoError(t, db.Put(ctx, "posts", schema.Document{
		Path:   path,
		Fields: map[string]schema.Value{"title": schema.String("Hello")},
	}))

	data, err := fb.Get(ctx, path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Hello")
}

func TestPut_BridgeFailureLeavesIndexUntouched(t *testing.T) {
	ctx := context.Background()
	db, fb := newTestDB(t, testSchema())
	fb.failPut = true

	err := db.Put(ctx, "posts", schema.Document{
		Path:   "content/posts/hello.md",
		Fields: map[string]schema.Value{"title": schema.String("Hello")},
	})
	require.Error(t, err)

	_, err = db.Get(ctx, "posts", "content/posts/hello.md")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddPendingDocument_DoesNotWriteBridge(t *testing.T) {
	ctx := context.Background()
	db, fb := newTestDB(t, testSchema())

	path := "content/posts/hello.md"
	require.NoError(t, db.AddPendingDocument(ctx, "posts", schema.Document{
		Path:   path,
		Fields: map[string]schema.Value{"title": schema.String("Hello")},
	}))

	_, err := fb.Get(ctx, path)
	assert.ErrorIs(t, err, bridge.ErrNotFound)

	got, err := db.Get(ctx, "posts", path)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Fields["title"].Str)
}
