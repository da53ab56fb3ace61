package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkdex/inkdex/pkg/schema"
)

func markdownSchema() *schema.Schema {
	return schema.New(schema.Collection{
		Name:     "posts",
		RootPath: "content/posts",
		Format:   "md",
		Fields: []schema.FieldDef{
			{Name: "title", Type: schema.FieldString, Indexed: true},
			{Name: "content", Type: schema.FieldRichText, IsBody: true},
		},
	})
}

func TestDefaultEncode_RendersFrontmatterForMarkdownCollections(t *testing.T) {
	ctx := context.Background()
	doc := schema.Document{
		Path: "content/posts/hello.md",
		Fields: map[string]schema.Value{
			"title":   schema.String("Hello"),
			"content": schema.String("body text"),
		},
	}

	data, err := defaultEncode(ctx, "posts", doc, markdownSchema())
	require.NoError(t, err)

	rendered := string(data)
	assert.Contains(t, rendered, "title: Hello")
	assert.Contains(t, rendered, "body text")
	assert.NotContains(t, rendered, "content:", "body field must not also appear in the frontmatter header")
}

func TestDefaultEncode_FallsBackToJSONForNonMarkdownCollections(t *testing.T) {
	ctx := context.Background()
	doc := schema.Document{
		Path:   "content/posts/hello.md",
		Fields: map[string]schema.Value{"title": schema.String("Hello")},
	}

	data, err := defaultEncode(ctx, "posts", doc, testSchema())
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Hello"}`, string(data))
}

func TestPut_UsesCustomEncoder(t *testing.T) {
	ctx := context.Background()
	store, closeFn := openTestStore(t)
	defer closeFn()
	fb := newFakeBridge()

	called := false
	encoder := func(ctx context.Context, collection string, doc schema.Document, sch *schema.Schema) ([]byte, error) {
		called = true
		return []byte("custom"), nil
	}
	db := Open(fb, store, testSchema(), WithEncoder(encoder))

	require.NoError(t, db.Put(ctx, "posts", schema.Document{
		Path:   "content/posts/hello.md",
		Fields: map[string]schema.Value{"title": schema.String("Hello")},
	}))

	assert.True(t, called)
	data, err := fb.Get(ctx, "content/posts/hello.md")
	require.NoError(t, err)
	assert.Equal(t, "custom", string(data))
}
