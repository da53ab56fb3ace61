package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestBolt(t *testing.T) *Bolt {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.db")
	b, err := OpenBolt(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func drain(t *testing.T, it Iterator) [][2]string {
	t.Helper()
	defer it.Close()
	var out [][2]string
	ctx := context.Background()
	for it.Next(ctx) {
		out = append(out, [2]string{string(it.Key()), string(it.Value())})
	}
	require.NoError(t, it.Err())
	return out
}

func TestBoltSublevel_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestBolt(t)
	sl := store.Sublevel("docs")

	_, err := sl.Get(ctx, []byte("a"))
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, sl.Put(ctx, []byte("a"), []byte("1")))
	v, err := sl.Get(ctx, []byte("a"))
	require.NoError(t, err)
	assert.Equal(t, "1", string(v))

	require.NoError(t, sl.Delete(ctx, []byte("a")))
	_, err = sl.Get(ctx, []byte("a"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBoltSublevel_Sublevels_AreIsolated(t *testing.T) {
	ctx := context.Background()
	store := openTestBolt(t)

	require.NoError(t, store.Sublevel("a").Put(ctx, []byte("k"), []byte("a-value")))
	require.NoError(t, store.Sublevel("b").Put(ctx, []byte("k"), []byte("b-value")))

	va, err := store.Sublevel("a").Get(ctx, []byte("k"))
	require.NoError(t, err)
	vb, err := store.Sublevel("b").Get(ctx, []byte("k"))
	require.NoError(t, err)

	assert.Equal(t, "a-value", string(va))
	assert.Equal(t, "b-value", string(vb))
}

func TestBoltSublevel_Batch(t *testing.T) {
	ctx := context.Background()
	sl := openTestBolt(t).Sublevel("docs")

	require.NoError(t, sl.Batch(ctx, []Op{
		{Type: OpPut, Key: []byte("a"), Value: []byte("1")},
		{Type: OpPut, Key: []byte("b"), Value: []byte("2")},
	}))
	require.NoError(t, sl.Batch(ctx, []Op{
		{Type: OpDelete, Key: []byte("a")},
	}))

	_, err := sl.Get(ctx, []byte("a"))
	require.ErrorIs(t, err, ErrNotFound)
	v, err := sl.Get(ctx, []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, "2", string(v))
}

func TestBoltSublevel_IteratorForwardAndBounds(t *testing.T) {
	ctx := context.Background()
	sl := openTestBolt(t).Sublevel("docs")

	for _, k := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, sl.Put(ctx, []byte(k), []byte(k+"-v")))
	}

	it, err := sl.Iterator(ctx, IterOptions{Gte: []byte("b"), Lt: []byte("e")})
	require.NoError(t, err)
	got := drain(t, it)
	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0][0])
	assert.Equal(t, "d", got[2][0])
}

func TestBoltSublevel_IteratorReverse(t *testing.T) {
	ctx := context.Background()
	sl := openTestBolt(t).Sublevel("docs")
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, sl.Put(ctx, []byte(k), []byte(k)))
	}

	it, err := sl.Iterator(ctx, IterOptions{Reverse: true})
	require.NoError(t, err)
	got := drain(t, it)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{got[0][0], got[1][0], got[2][0]})
}

func TestBoltSublevel_IteratorOnMissingBucketIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := openTestBolt(t)
	it, err := store.Sublevel("nope").Iterator(ctx, IterOptions{})
	require.NoError(t, err)
	assert.Empty(t, drain(t, it))
}

func TestBoltSublevel_Clear(t *testing.T) {
	ctx := context.Background()
	sl := openTestBolt(t).Sublevel("docs")
	require.NoError(t, sl.Put(ctx, []byte("a"), []byte("1")))
	require.NoError(t, sl.Clear(ctx))

	_, err := sl.Get(ctx, []byte("a"))
	require.ErrorIs(t, err, ErrNotFound)
}
