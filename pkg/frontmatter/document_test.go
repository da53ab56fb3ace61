package frontmatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkdex/inkdex/pkg/schema"
)

func TestParseDocument_RoundTrip(t *testing.T) {
	src := []byte("---\ntitle: Hello\nrank: 3\ndraft: true\ntags: [a, b]\n---\nbody text\n")

	doc, body, err := ParseDocument("posts/hello.md", src)
	require.NoError(t, err)
	assert.Equal(t, "posts/hello.md", doc.Path)
	assert.Equal(t, schema.String("Hello"), doc.Fields["title"])
	assert.Equal(t, schema.Number(3), doc.Fields["rank"])
	assert.Equal(t, schema.Bool(true), doc.Fields["draft"])
	assert.Equal(t, "body text\n", string(body))
}

func TestRenderMarkdown_ThenParseDocument(t *testing.T) {
	doc := schema.Document{
		Path: "posts/roundtrip.md",
		Fields: map[string]schema.Value{
			"title": schema.String("Round Trip"),
			"rank":  schema.Number(7),
			"draft": schema.Bool(false),
		},
	}

	rendered, err := RenderMarkdown(doc, "# content\n")
	require.NoError(t, err)

	parsed, body, err := ParseDocument(doc.Path, []byte(rendered))
	require.NoError(t, err)
	assert.Equal(t, doc.Fields["title"], parsed.Fields["title"])
	assert.Equal(t, doc.Fields["rank"], parsed.Fields["rank"])
	assert.Equal(t, doc.Fields["draft"], parsed.Fields["draft"])
	assert.Equal(t, "# content\n", string(body))
}

func TestFromDocument_RendersDatetimeAsString(t *testing.T) {
	doc := schema.Document{
		Path: "posts/skip.md",
		Fields: map[string]schema.Value{
			"title":     schema.String("Skip"),
			"createdAt": schema.Datetime(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
		},
	}

	fm := FromDocument(doc)
	v, ok := fm.Get([]byte("createdAt"))
	assert.True(t, ok, "datetime fields are rendered as plain strings")
	assert.Equal(t, ValueScalar, v.Kind)
	assert.Equal(t, ScalarString, v.Scalar.Kind)
}
