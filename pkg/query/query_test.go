package query

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkdex/inkdex/pkg/bridge"
	"github.com/inkdex/inkdex/pkg/docstore"
	"github.com/inkdex/inkdex/pkg/filter"
	"github.com/inkdex/inkdex/pkg/kv"
	"github.com/inkdex/inkdex/pkg/schema"
)

type noopBridge struct{}

func (noopBridge) Get(context.Context, string) ([]byte, error)      { return nil, bridge.ErrNotFound }
func (noopBridge) Put(context.Context, string, []byte) error        { return nil }
func (noopBridge) Delete(context.Context, string) error             { return nil }
func (noopBridge) Glob(context.Context, string) ([]string, error)   { return nil, nil }
func (noopBridge) PutConfig(context.Context, string, []byte) error  { return nil }
func (noopBridge) SupportsBuilding() bool                            { return false }

func newTestDB(t *testing.T) *docstore.Database {
	t.Helper()
	store, err := kv.OpenBolt(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	sch := schema.New(schema.Collection{
		Name: "posts",
		Fields: []schema.FieldDef{
			{Name: "title", Type: schema.FieldString, Indexed: true},
			{Name: "rank", Type: schema.FieldNumber, Indexed: true},
		},
	})
	return docstore.Open(noopBridge{}, store, sch)
}

func seedPosts(t *testing.T, db *docstore.Database, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		require.NoError(t, db.Put(ctx, "posts", schema.Document{
			Path: fmt.Sprintf("content/posts/post-%02d.md", i),
			Fields: map[string]schema.Value{
				"title": schema.String(fmt.Sprintf("Post %02d", i)),
				"rank":  schema.Number(float64(i)),
			},
		}))
	}
}

func TestRun_DefaultSortByPath(t *testing.T) {
	db := newTestDB(t)
	seedPosts(t, db, 5)

	result, err := Run(context.Background(), db, Input{Collection: "posts"})
	require.NoError(t, err)
	require.Len(t, result.Documents, 5)
	assert.Equal(t, "content/posts/post-00.md", result.Documents[0].Path)
	assert.Equal(t, "content/posts/post-04.md", result.Documents[4].Path)
}

func TestRun_SortByIndexedField(t *testing.T) {
	db := newTestDB(t)
	seedPosts(t, db, 5)

	result, err := Run(context.Background(), db, Input{Collection: "posts", SortKey: "rank", Reverse: true})
	require.NoError(t, err)
	require.Len(t, result.Documents, 5)
	assert.Equal(t, "content/posts/post-04.md", result.Documents[0].Path)
}

func TestRun_FilterNarrowsRange(t *testing.T) {
	db := newTestDB(t)
	seedPosts(t, db, 10)

	result, err := Run(context.Background(), db, Input{
		Collection: "posts",
		SortKey:    "rank",
		Filter:     filter.Chain{filter.Gte("rank", schema.Number(5))},
	})
	require.NoError(t, err)
	require.Len(t, result.Documents, 5)
	assert.Equal(t, "content/posts/post-05.md", result.Documents[0].Path)
}

func TestRun_ResidualFilterOnFieldOutsideScannedIndex(t *testing.T) {
	db := newTestDB(t)
	seedPosts(t, db, 10)

	result, err := Run(context.Background(), db, Input{
		Collection: "posts",
		Filter:     filter.Chain{filter.Eq("title", schema.String("Post 03"))},
	})
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "content/posts/post-03.md", result.Documents[0].Path)
}

func TestRun_ForwardPagination(t *testing.T) {
	db := newTestDB(t)
	seedPosts(t, db, 10)

	first := 3
	page1, err := Run(context.Background(), db, Input{Collection: "posts", First: &first})
	require.NoError(t, err)
	require.Len(t, page1.Documents, 3)
	assert.True(t, page1.HasNextPage)
	assert.False(t, page1.HasPreviousPage)

	page2, err := Run(context.Background(), db, Input{Collection: "posts", First: &first, After: page1.EndCursor})
	require.NoError(t, err)
	require.Len(t, page2.Documents, 3)
	assert.Equal(t, "content/posts/post-03.md", page2.Documents[0].Path)
	assert.True(t, page2.HasPreviousPage)
}

func TestRun_BackwardPagination(t *testing.T) {
	db := newTestDB(t)
	seedPosts(t, db, 10)

	last := 3
	page, err := Run(context.Background(), db, Input{Collection: "posts", Last: &last})
	require.NoError(t, err)
	require.Len(t, page.Documents, 3)
	assert.Equal(t, "content/posts/post-07.md", page.Documents[0].Path)
	assert.Equal(t, "content/posts/post-09.md", page.Documents[2].Path)
	assert.True(t, page.HasPreviousPage)
}

func TestRun_UnknownSortKey(t *testing.T) {
	db := newTestDB(t)
	seedPosts(t, db, 1)

	_, err := Run(context.Background(), db, Input{Collection: "posts", SortKey: "nope"})
	require.Error(t, err)
}
