package bridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ifs "github.com/inkdex/inkdex/pkg/fs"
)

func TestLocal_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	b := NewLocal(t.TempDir(), ifs.NewReal())

	require.NoError(t, b.Put(ctx, "content/posts/hello.md", []byte("hello")))

	data, err := b.Get(ctx, "content/posts/hello.md")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, b.Delete(ctx, "content/posts/hello.md"))
	_, err = b.Get(ctx, "content/posts/hello.md")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting an already-absent path is not an error.
	require.NoError(t, b.Delete(ctx, "content/posts/hello.md"))
}

func TestLocal_Glob(t *testing.T) {
	ctx := context.Background()
	b := NewLocal(t.TempDir(), ifs.NewReal())

	require.NoError(t, b.Put(ctx, "content/posts/a.md", []byte("a")))
	require.NoError(t, b.Put(ctx, "content/posts/b.md", []byte("b")))
	require.NoError(t, b.Put(ctx, "content/pages/c.md", []byte("c")))

	matches, err := b.Glob(ctx, "content/posts/*.md")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"content/posts/a.md", "content/posts/b.md"}, matches)
}

func TestLocal_PutConfig(t *testing.T) {
	ctx := context.Background()
	b := NewLocal(t.TempDir(), ifs.NewReal())

	require.NoError(t, b.PutConfig(ctx, "schema.json", []byte("{}")))

	data, err := b.Get(ctx, ".tina/__generated__/schema.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}
